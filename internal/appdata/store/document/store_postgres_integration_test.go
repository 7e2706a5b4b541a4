//go:build integration

package document

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
	"tasquest/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	pool  *pgxpool.Pool
	store *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	pool, err := pgxpool.New(context.Background(), s.pg.URL)
	s.Require().NoError(err)
	s.pool = pool
	s.store = NewPostgres(pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "app_data"))
}

func (s *PostgresStoreSuite) TestSaveAndLoad() {
	ctx := context.Background()
	accountID := id.NewAccountID()

	_, err := s.store.Load(ctx, accountID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	data, err := models.NewAppData("Jane", models.DefaultStatusNames...)
	s.Require().NoError(err)
	version, err := s.store.Save(ctx, accountID, data)
	s.Require().NoError(err)
	s.Equal(int64(1), version)

	version, err = s.store.Save(ctx, accountID, data)
	s.Require().NoError(err)
	s.Equal(int64(2), version)

	loaded, err := s.store.Load(ctx, accountID)
	s.Require().NoError(err)
	s.Equal("Jane", loaded.Username)
	s.Len(loaded.Statuses, 3)
	s.Equal(int64(2), loaded.Version)
}

func (s *PostgresStoreSuite) TestExecuteSerializesToggles() {
	ctx := context.Background()
	accountID := id.NewAccountID()
	data, err := models.NewAppData("Jane", "Todo")
	s.Require().NoError(err)
	goal, err := models.NewGoal("Learn X", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(data.AddGoal(data.Statuses[0].ID, goal))
	_, err = s.store.Save(ctx, accountID, data)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, accountID, func(d *models.AppData) error {
				return d.ToggleStar(goal.ID)
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	loaded, err := s.store.Load(ctx, accountID)
	s.Require().NoError(err)
	found, err := loaded.FindGoal(goal.ID)
	s.Require().NoError(err)
	s.True(found.IsStarred, "five toggles leave the goal starred")
	s.Equal(int64(6), loaded.Version)
}
