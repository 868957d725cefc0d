package checkout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
)

// dispatch submits every order request concurrently and waits for all of
// them to settle. On universal success it returns the created summaries in
// the same order as reqs. On any failure it returns the first error
// encountered, after the join; orders that already succeeded are left
// standing, there is no compensating rollback.
func (s *Service) dispatch(ctx context.Context, reqs []order.Request) ([]order.Summary, error) {
	summaries := make([]order.Summary, len(reqs))

	// No WithContext: a failed submission must not cancel in-flight
	// siblings, the join collects every outcome either way.
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			sum, err := s.orders.CreateBulk(ctx, req)
			if err != nil {
				return &SubmissionError{SupplierID: req.SupplierID, Err: err}
			}
			summaries[i] = *sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
