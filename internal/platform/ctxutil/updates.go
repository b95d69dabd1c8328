package ctxutil

import (
	"context"

	"github.com/ericman314/pinewood-server/internal/realtime"
)

type updateDataKey struct{}

// UpdateData collects the change descriptors a request produced so they can
// be pushed to subscribers once the handler has responded.
type UpdateData struct {
	Descriptors []realtime.ChangeDescriptor
	Broadcasts  []realtime.Message
}

func WithUpdateData(ctx context.Context) context.Context {
	data := &UpdateData{
		Descriptors: make([]realtime.ChangeDescriptor, 0),
	}
	return context.WithValue(ctx, updateDataKey{}, data)
}

func GetUpdateData(ctx context.Context) *UpdateData {
	val := ctx.Value(updateDataKey{})
	ud, ok := val.(*UpdateData)
	if !ok {
		return nil
	}
	return ud
}

func (d *UpdateData) Append(descriptors ...realtime.ChangeDescriptor) {
	d.Descriptors = append(d.Descriptors, descriptors...)
}

func (d *UpdateData) AppendBroadcast(msg realtime.Message) {
	d.Broadcasts = append(d.Broadcasts, msg)
}
