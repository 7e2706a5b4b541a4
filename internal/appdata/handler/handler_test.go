package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasquest/internal/appdata/models"
	"tasquest/internal/appdata/service"
	"tasquest/internal/appdata/store/document"
	"tasquest/internal/platform/logger"
	id "tasquest/pkg/domain"
	"tasquest/pkg/requestcontext"
	"tasquest/pkg/testutil"
)

func authAs(accountID id.AccountID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithAccountID(r.Context(), accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newAppDataRouter(t *testing.T, accountID id.AccountID) http.Handler {
	t.Helper()
	svc, err := service.New(document.NewInMemoryStore(), service.WithLogger(logger.Discard()))
	require.NoError(t, err)
	router := chi.NewRouter()
	New(svc, logger.Discard(), authAs(accountID)).Register(router)
	return router
}

func TestAppDataEndpoints(t *testing.T) {
	accountID := id.NewAccountID()
	router := newAppDataRouter(t, accountID)

	data, err := models.NewAppData("Jane", "Todo")
	require.NoError(t, err)
	goal, err := models.NewGoal("Learn X", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, data.AddGoal(data.Statuses[0].ID, goal))

	testutil.Given(t, "an account without app data", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/appdata", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	testutil.When(t, "the document is saved", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/appdata", data))
		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
	})

	testutil.Then(t, "it can be fetched back", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/appdata", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		fetched := testutil.UnmarshalResponse[models.AppData](t, rr)
		assert.Equal(t, "Jane", fetched.Username)
		assert.Equal(t, int64(1), fetched.Version)
	})

	testutil.Then(t, "starring toggles the goal", func(t *testing.T) {
		path := "/v1/appdata/goals/" + goal.ID.String() + "/star"
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, testutil.UnmarshalResponse[models.Goal](t, rr).IsStarred)
	})

	testutil.Then(t, "unknown goals are 404", func(t *testing.T) {
		path := "/v1/appdata/goals/" + id.NewGoalID().String() + "/star"
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	testutil.Then(t, "malformed goal ids are 400", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/appdata/goals/not-a-uuid/star", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	testutil.Then(t, "documents with dangling tags are rejected", func(t *testing.T) {
		bad, _ := models.NewAppData("Jane", "Todo")
		badGoal, _ := models.NewGoal("Broken", time.Now())
		badGoal.TagIDs = []id.TagID{id.NewTagID()}
		bad.Statuses[0].Goals = append(bad.Statuses[0].Goals, badGoal)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/appdata", bad))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}
