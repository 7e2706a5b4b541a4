package client

import (
	"context"
	"net/http"

	"tasquest/internal/appdata/models"
	identity "tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/email"
)

// DataClient is the device-side Data Access Facade.
type DataClient struct {
	c *Client
}

// Fetch loads the account's AppData. A new user with no stored record gets
// nil, nil.
func (d *DataClient) Fetch(ctx context.Context, accountID id.AccountID) (*models.AppData, error) {
	token, err := d.tokenFor(accountID)
	if err != nil {
		return nil, err
	}
	var data models.AppData
	err = d.c.do(ctx, http.MethodGet, "/v1/appdata", token, nil, &data, dErrors.CodeStorageUnavailable)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Save writes the whole document.
func (d *DataClient) Save(ctx context.Context, accountID id.AccountID, data *models.AppData) error {
	if data == nil {
		return dErrors.New(dErrors.CodeBadRequest, "app data is required")
	}
	token, err := d.tokenFor(accountID)
	if err != nil {
		return err
	}
	return d.c.do(ctx, http.MethodPut, "/v1/appdata", token, data, nil, dErrors.CodeStorageUnavailable)
}

// ToggleStar flips the star on the server copy and returns the updated goal.
func (d *DataClient) ToggleStar(ctx context.Context, accountID id.AccountID, goalID id.GoalID) (*models.Goal, error) {
	token, err := d.tokenFor(accountID)
	if err != nil {
		return nil, err
	}
	var goal models.Goal
	path := "/v1/appdata/goals/" + goalID.String() + "/star"
	if err := d.c.do(ctx, http.MethodPost, path, token, nil, &goal, dErrors.CodeStorageUnavailable); err != nil {
		return nil, err
	}
	return &goal, nil
}

// Bootstrap builds a starter document locally; nothing is sent until Save.
func (d *DataClient) Bootstrap(_ context.Context, who identity.AccountIdentity) (*models.AppData, error) {
	return models.NewAppData(email.DeriveUsername(who.Email), models.DefaultStatusNames...)
}

func (d *DataClient) tokenFor(accountID id.AccountID) (string, error) {
	sess, err := d.c.currentSession()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	if sess == nil {
		return "", errNoSession
	}
	if sess.AccountID != "" && sess.AccountID != accountID.String() {
		return "", dErrors.New(dErrors.CodeForbidden, "session belongs to another account")
	}
	return sess.Token, nil
}
