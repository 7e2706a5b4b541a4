package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	"tasquest/pkg/platform/sentinel"
	"tasquest/pkg/testutil"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) newAccount(email string) *models.Account {
	account, err := models.NewAccount(id.NewAccountID(), email, "hash", testutil.FixedTime)
	s.Require().NoError(err)
	return account
}

func (s *InMemoryStoreSuite) TestCreateIfEmailAvailable() {
	s.Run("stores a new account findable by id and email", func() {
		account := s.newAccount("jane@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, account))

		byID, err := s.store.FindByID(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Equal(account.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(s.ctx, "jane@example.com")
		s.Require().NoError(err)
		s.Equal(account.ID, byEmail.ID)
	})

	s.Run("rejects a taken email with ErrConflict", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, s.newAccount("dup@example.com")))
		err := s.store.CreateIfEmailAvailable(s.ctx, s.newAccount("dup@example.com"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("returned records are copies", func() {
		account := s.newAccount("copy@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, account))
		account.Email = "mutated@example.com"

		found, err := s.store.FindByID(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Equal("copy@example.com", found.Email)
	})
}

func (s *InMemoryStoreSuite) TestLookupMisses() {
	_, err := s.store.FindByID(s.ctx, id.NewAccountID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestExecute() {
	account := s.newAccount("exec@example.com")
	s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, account))
	ref := "avatars/exec.png"

	s.Run("applies the mutation when validation passes", func() {
		updated, err := s.store.Execute(s.ctx, account.ID,
			func(*models.Account) error { return nil },
			func(a *models.Account) { a.ApplyAvatar(&ref, testutil.FixedTime) },
		)
		s.Require().NoError(err)
		s.Equal(ref, *updated.AvatarRef)
	})

	s.Run("leaves the record untouched when validation fails", func() {
		boom := errors.New("nope")
		_, err := s.store.Execute(s.ctx, account.ID,
			func(*models.Account) error { return boom },
			func(a *models.Account) { a.ApplyAvatar(nil, testutil.FixedTime) },
		)
		s.ErrorIs(err, boom)

		found, err := s.store.FindByID(s.ctx, account.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found.AvatarRef)
	})

	s.Run("unknown account is ErrNotFound", func() {
		_, err := s.store.Execute(s.ctx, id.NewAccountID(),
			func(*models.Account) error { return nil },
			func(*models.Account) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
