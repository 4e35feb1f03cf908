package firestoredb

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type snapshotSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *snapshotSubscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// watchQuery listens to q and calls onChange for every document change,
// starting with the initial result set, until the subscription is cancelled.
func watchQuery(ctx context.Context, q firestore.Query, onChange func(domain.ChangeKind, *firestore.DocumentSnapshot)) (repository.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	it := q.Snapshots(ctx)
	sub := &snapshotSubscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					logger.Warn("Snapshot listener stopped", "error", err)
				}
				return
			}
			for _, ch := range qs.Changes {
				onChange(changeKind(ch.Kind), ch.Doc)
			}
		}
	}()

	return sub, nil
}

func changeKind(k firestore.DocumentChangeKind) domain.ChangeKind {
	switch k {
	case firestore.DocumentAdded:
		return domain.ChangeAdded
	case firestore.DocumentRemoved:
		return domain.ChangeRemoved
	default:
		return domain.ChangeModified
	}
}
