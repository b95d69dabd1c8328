package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/observability"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type VoteHandler struct {
	log         *logger.Logger
	voteService services.VoteService
	metrics     *observability.Metrics
}

func NewVoteHandler(log *logger.Logger, voteService services.VoteService, metrics *observability.Metrics) *VoteHandler {
	return &VoteHandler{log: log.With("handler", "VoteHandler"), voteService: voteService, metrics: metrics}
}

// Vote always answers the same way so a ballot reveals nothing.
func (vh *VoteHandler) Vote(c *gin.Context) {
	var req struct {
		Votes string `json:"votes" form:"votes"`
	}
	if err := bindLegacy(c, &req); err == nil {
		vh.metrics.AddVotes(vh.voteService.Vote(c.Request.Context(), req.Votes))
	}
	response.RespondOK(c, gin.H{"message": "Thank you"})
}
