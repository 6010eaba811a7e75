package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
	"github.com/iho/feefines/internal/usecase/mocks"
)

func TestActionUseCase_PublishesBalanceChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)

	f := newFixture(t, func(cfg *usecase.ActionUseCaseConfig) {
		cfg.Publisher = publisher
	})
	f.charge("ff-1", "10.00")

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, event *domain.Event) error {
			if event.EventType != domain.EventTypeBalanceChanged {
				t.Errorf("expected %s, got %s", domain.EventTypeBalanceChanged, event.EventType)
			}
			payload, ok := event.Payload.(domain.BalanceChangedEvent)
			if !ok {
				t.Fatalf("unexpected payload %T", event.Payload)
			}
			if payload.Balance != "6.00" || payload.FeeFineID != "ff-1" || payload.UserID != "patron-1" {
				t.Errorf("unexpected payload %+v", payload)
			}
			return nil
		})

	if _, err := f.uc.Pay(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "4.00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActionUseCase_PublishesLoanClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)

	f := newFixture(t, func(cfg *usecase.ActionUseCaseConfig) {
		cfg.Publisher = publisher
	})
	a := f.charge("ff-1", "10.00")
	loanID := "loan-7"
	a.LoanID = &loanID
	f.accounts.Seed(a)

	gomock.InOrder(
		publisher.EXPECT().Publish(gomock.Any(), eventOfType(domain.EventTypeBalanceChanged)).Return(nil),
		publisher.EXPECT().Publish(gomock.Any(), eventOfType(domain.EventTypeLoanClosed)).DoAndReturn(
			func(ctx context.Context, event *domain.Event) error {
				payload := event.Payload.(domain.LoanClosedEvent)
				if payload.LoanID != "loan-7" || payload.FeeFineID != "ff-1" {
					t.Errorf("unexpected payload %+v", payload)
				}
				return nil
			}),
	)

	if _, err := f.uc.Waive(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "10.00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActionUseCase_PublishFailureDoesNotUndoCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	observer := mocks.NewMockObserver(ctrl)

	f := newFixture(t, func(cfg *usecase.ActionUseCaseConfig) {
		cfg.Publisher = publisher
		cfg.Observer = observer
	})
	f.charge("ff-1", "10.00")

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	observer.EXPECT().EventPublishFailed(domain.EventTypeBalanceChanged)
	observer.EXPECT().ActionApplied(domain.ActionTypePay, gomock.Any())

	result, err := f.uc.Pay(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "1.00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected result")
	}
	if got := f.accounts.Get("ff-1").Remaining.String(); got != "9.00" {
		t.Errorf("expected remaining 9.00, got %s", got)
	}
}

func TestActionUseCase_NoEventsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	observer := mocks.NewMockObserver(ctrl)

	f := newFixture(t, func(cfg *usecase.ActionUseCaseConfig) {
		cfg.Publisher = publisher
		cfg.Observer = observer
	})
	f.charge("ff-1", "10.00")

	observer.EXPECT().ActionRejected(domain.ActionTypePay, "validation")

	if _, err := f.uc.Pay(context.Background(), usecase.ActionInput{AccountID: "ff-1", Amount: "11.00"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestActionUseCase_ObservesRefundAllocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockObserver(ctrl)

	f := newFixture(t, func(cfg *usecase.ActionUseCaseConfig) {
		cfg.Observer = observer
	})
	f.charge("ff-a", "10.00")
	f.post("ff-a", domain.ActionTypePay, "10.00", "Cash", 1)
	f.charge("ff-b", "10.00")
	f.post("ff-b", domain.ActionTypePay, "2.00", "Cash", 1)

	observer.EXPECT().RefundAllocated(2, 2)
	observer.EXPECT().ActionApplied(domain.ActionTypeRefund, gomock.Any())

	if _, err := f.uc.RefundBulk(context.Background(), usecase.BulkActionInput{AccountIDs: []string{"ff-a", "ff-b"}, Amount: "10.00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type eventTypeMatcher string

func eventOfType(eventType string) gomock.Matcher {
	return eventTypeMatcher(eventType)
}

func (m eventTypeMatcher) Matches(x any) bool {
	event, ok := x.(*domain.Event)
	return ok && event.EventType == string(m)
}

func (m eventTypeMatcher) String() string {
	return "is event of type " + string(m)
}
