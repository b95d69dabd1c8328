package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

const maxVotesPerBallot = 3

var voteIDPattern = regexp.MustCompile(`^[0-9]{1,9}$`)

type VoteService interface {
	// Vote records a comma-separated ballot of car ids. Ballots with more than
	// three entries are ignored, as are entries that are not 1-9 digit ids.
	// It never reports an outcome to the caller.
	Vote(ctx context.Context, ballot string) int
}

type voteService struct {
	log      *logger.Logger
	voteRepo repos.VoteRepo
}

func NewVoteService(log *logger.Logger, voteRepo repos.VoteRepo) VoteService {
	serviceLog := log.With("service", "VoteService")
	return &voteService{log: serviceLog, voteRepo: voteRepo}
}

func (vs *voteService) Vote(ctx context.Context, ballot string) int {
	carIDs := ParseBallot(ballot)
	if len(carIDs) == 0 {
		return 0
	}

	var g errgroup.Group
	g.SetLimit(maxVotesPerBallot)
	for _, id := range carIDs {
		id := id
		g.Go(func() error {
			if err := vs.voteRepo.Increment(ctx, nil, id); err != nil {
				vs.log.Warn("Failed to record vote", "car_id", id, "error", err)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0
	}
	return len(carIDs)
}

// ParseBallot extracts the car ids from a ballot string.
func ParseBallot(ballot string) []int64 {
	if strings.TrimSpace(ballot) == "" {
		return nil
	}
	parts := strings.Split(ballot, ",")
	if len(parts) > maxVotesPerBallot {
		return nil
	}
	valid := lo.Filter(parts, func(p string, _ int) bool {
		return voteIDPattern.MatchString(strings.TrimSpace(p))
	})
	return lo.Map(valid, func(p string, _ int) int64 {
		id, _ := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		return id
	})
}
