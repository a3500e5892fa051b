package ruleset_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	ruleset "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) ruleset.Repository
	repo    ruleset.Repository
	ctx     context.Context
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) ruleset.Repository {
		client, cleanup := testutils.CreateTestRedisClient(t)
		t.Cleanup(cleanup)
		repo, err := ruleset.NewRedis(&ruleset.RedisConfig{Client: client})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) ruleset.Repository {
		repo, err := ruleset.NewSQLite(&ruleset.SQLiteConfig{DB: testutils.CreateTestSQLiteDB(t)})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo(s.T())
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TestPutGetRoundTrip() {
	rs := testutils.TestRuleset()
	rs.ImportedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: rs})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, ruleset.GetInput{ID: rs.Meta.ID})
	s.Require().NoError(err)
	s.Equal(rs, out.Ruleset)
}

func (s *RepositoryTestSuite) TestReimportReplaces() {
	rs := testutils.TestRuleset()
	_, err := s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: rs})
	s.Require().NoError(err)

	replacement := &entities.Ruleset{
		Meta:    entities.RulesetMeta{ID: rs.Meta.ID, Name: "Replaced", Version: "2.0"},
		Classes: map[string]*entities.ClassDef{},
	}
	_, err = s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: replacement})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, ruleset.GetInput{ID: rs.Meta.ID})
	s.Require().NoError(err)
	s.Equal("Replaced", out.Ruleset.Meta.Name)
	s.Empty(out.Ruleset.Classes)

	all, err := s.repo.ListAll(s.ctx, ruleset.ListAllInput{})
	s.Require().NoError(err)
	s.Len(all.Rulesets, 1)
}

func (s *RepositoryTestSuite) TestDelete() {
	rs := testutils.TestRuleset()
	_, err := s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: rs})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, ruleset.DeleteInput{ID: rs.Meta.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, ruleset.GetInput{ID: rs.Meta.ID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, ruleset.DeleteInput{ID: rs.Meta.ID})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListAllOrdersByName() {
	for _, meta := range []entities.RulesetMeta{
		{ID: "b", Name: "Tasha's"},
		{ID: "a", Name: "SRD"},
		{ID: "c", Name: "SRD"},
	} {
		_, err := s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: &entities.Ruleset{Meta: meta}})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListAll(s.ctx, ruleset.ListAllInput{})
	s.Require().NoError(err)

	got := make([]string, len(out.Rulesets))
	for i, rs := range out.Rulesets {
		got[i] = rs.Meta.ID
	}
	s.Equal([]string{"a", "c", "b"}, got)
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Put(s.ctx, ruleset.PutInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, ruleset.PutInput{Ruleset: &entities.Ruleset{}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, ruleset.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisListAllIndexFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo, err := ruleset.NewRedis(&ruleset.RedisConfig{Client: client})
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectSMembers("ruleset:all").SetErr(stderrors.New("READONLY"))

	_, err = repo.ListAll(context.Background(), ruleset.ListAllInput{})
	if !errors.IsInternal(err) {
		t.Fatalf("ListAll error = %v, want internal", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
