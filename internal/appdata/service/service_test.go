package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tasquest/internal/appdata/models"
	"tasquest/internal/appdata/service/mocks"
	"tasquest/internal/appdata/store/document"
	identity "tasquest/internal/identity/models"
	"tasquest/internal/platform/logger"
	"tasquest/internal/platform/metrics"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/platform/circuit"
	"tasquest/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockDocumentStore
	metrics   *metrics.Metrics
	svc       *Service
	accountID id.AccountID
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockDocumentStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	svc, err := New(s.store,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithTimeout(50*time.Millisecond),
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))),
	)
	s.Require().NoError(err)
	s.svc = svc
	s.accountID = id.NewAccountID()
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestFetch() {
	s.Run("new user yields nil without error", func() {
		s.store.EXPECT().Load(gomock.Any(), s.accountID).Return(nil, sentinel.ErrNotFound)
		data, err := s.svc.Fetch(s.ctx, s.accountID)
		s.NoError(err)
		s.Nil(data)
	})

	s.Run("returns the stored document", func() {
		stored, _ := models.NewAppData("Jane", "Todo")
		s.store.EXPECT().Load(gomock.Any(), s.accountID).Return(stored, nil)
		data, err := s.svc.Fetch(s.ctx, s.accountID)
		s.Require().NoError(err)
		s.Equal("Jane", data.Username)
	})

	s.Run("store failure is storage_unavailable", func() {
		s.store.EXPECT().Load(gomock.Any(), s.accountID).Return(nil, errors.New("connection refused"))
		_, err := s.svc.Fetch(s.ctx, s.accountID)
		s.True(dErrors.HasCode(err, dErrors.CodeStorageUnavailable))
	})

	s.Run("timeout is storage_unavailable", func() {
		s.store.EXPECT().Load(gomock.Any(), s.accountID).
			DoAndReturn(func(ctx context.Context, _ id.AccountID) (*models.AppData, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})
		_, err := s.svc.Fetch(s.ctx, s.accountID)
		s.True(dErrors.HasCode(err, dErrors.CodeStorageUnavailable))
	})
}

func (s *ServiceSuite) TestBreakerFailsFast() {
	s.store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, errors.New("down")).Times(2)

	for i := 0; i < 2; i++ {
		_, err := s.svc.Fetch(s.ctx, s.accountID)
		s.True(dErrors.HasCode(err, dErrors.CodeStorageUnavailable))
	}
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.BreakerOpen))

	// Third call never reaches the store.
	_, err := s.svc.Fetch(s.ctx, s.accountID)
	s.True(dErrors.HasCode(err, dErrors.CodeStorageUnavailable))
}

func (s *ServiceSuite) TestSave() {
	s.Run("invalid document never reaches the store", func() {
		data, _ := models.NewAppData("Jane", "Todo")
		data.Statuses[0].Name = ""
		err := s.svc.Save(s.ctx, s.accountID, data)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("stores and reports the version", func() {
		data, _ := models.NewAppData("Jane", "Todo")
		s.store.EXPECT().Save(gomock.Any(), s.accountID, data).Return(int64(4), nil)
		s.Require().NoError(s.svc.Save(s.ctx, s.accountID, data))
		s.Equal(int64(4), data.Version)
	})

	s.Run("store failure is storage_unavailable", func() {
		data, _ := models.NewAppData("Jane", "Todo")
		s.store.EXPECT().Save(gomock.Any(), s.accountID, data).Return(int64(0), errors.New("disk full"))
		err := s.svc.Save(s.ctx, s.accountID, data)
		s.True(dErrors.HasCode(err, dErrors.CodeStorageUnavailable))
	})
}

func (s *ServiceSuite) TestBootstrap() {
	data, err := s.svc.Bootstrap(s.ctx, identity.AccountIdentity{ID: s.accountID, Email: "jane.doe@example.com"})
	s.Require().NoError(err)
	s.Equal("Jane Doe", data.Username)
	s.Len(data.Statuses, 3)
	s.Equal("Todo", data.Statuses[0].Name)
	s.NoError(data.Validate())
}

// ToggleStar runs against the real in-memory store so the Execute callback is exercised.
func TestToggleStarThroughStore(t *testing.T) {
	store := document.NewInMemoryStore()
	svc, err := New(store, WithLogger(logger.Discard()))
	suite.Run(t, &toggleSuite{store: store, svc: svc, newErr: err})
}

type toggleSuite struct {
	suite.Suite
	store  *document.InMemoryStore
	svc    *Service
	newErr error
}

func (s *toggleSuite) TestToggle() {
	s.Require().NoError(s.newErr)
	ctx := context.Background()
	accountID := id.NewAccountID()

	s.Run("account without data is not_found", func() {
		_, err := s.svc.ToggleStar(ctx, accountID, id.NewGoalID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	data, _ := models.NewAppData("Jane", "Todo")
	goal, _ := models.NewGoal("Learn X", time.Now())
	s.Require().NoError(data.AddGoal(data.Statuses[0].ID, goal))
	s.Require().NoError(s.svc.Save(ctx, accountID, data))

	s.Run("flips and flips back", func() {
		updated, err := s.svc.ToggleStar(ctx, accountID, goal.ID)
		s.Require().NoError(err)
		s.True(updated.IsStarred)

		updated, err = s.svc.ToggleStar(ctx, accountID, goal.ID)
		s.Require().NoError(err)
		s.False(updated.IsStarred)
	})

	s.Run("unknown goal is not_found and leaves the breaker closed", func() {
		_, err := s.svc.ToggleStar(ctx, accountID, id.NewGoalID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.False(s.svc.breaker.IsOpen())
	})
}
