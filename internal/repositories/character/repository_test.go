package character_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	character "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) character.Repository
	repo    character.Repository
	ctx     context.Context
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) character.Repository {
		client, cleanup := testutils.CreateTestRedisClient(t)
		t.Cleanup(cleanup)
		repo, err := character.NewRedis(&character.RedisConfig{Client: client})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) character.Repository {
		repo, err := character.NewSQLite(&character.SQLiteConfig{DB: testutils.CreateTestSQLiteDB(t)})
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

func testCharacter(id, name, rulesetID string) *entities.Character {
	return &entities.Character{
		ID:        id,
		Name:      name,
		RulesetID: rulesetID,
		ClassID:   "artificer",
		Level:     3,
		Abilities: map[entities.Ability]int{entities.AbilityIntelligence: 16},
		HP:        entities.HitPoints{Current: 20, Max: 24},
		Spells:    entities.SpellBook{Cantrips: []string{"s1", "s2"}, Known: []string{}},
		Advancement: map[string]entities.AdvancementRecord{
			"3": {"c1": {"s1", "s2"}},
		},
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func (s *RepositoryTestSuite) TestPutAndGet() {
	char := testCharacter("char_1", "Vex", "tashas")

	_, err := s.repo.Put(s.ctx, character.PutInput{Character: char})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})
	s.Require().NoError(err)
	s.Equal(char, out.Character)
}

func (s *RepositoryTestSuite) TestPutOverwrites() {
	char := testCharacter("char_1", "Vex", "tashas")
	_, err := s.repo.Put(s.ctx, character.PutInput{Character: char})
	s.Require().NoError(err)

	char.Level = 4
	char.RulesetID = "srd"
	_, err = s.repo.Put(s.ctx, character.PutInput{Character: char})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})
	s.Require().NoError(err)
	s.Equal(4, out.Character.Level)

	old, err := s.repo.ListAll(s.ctx, character.ListAllInput{RulesetID: "tashas"})
	s.Require().NoError(err)
	s.Empty(old.Characters)

	moved, err := s.repo.ListAll(s.ctx, character.ListAllInput{RulesetID: "srd"})
	s.Require().NoError(err)
	s.Len(moved.Characters, 1)
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "nobody"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Get(s.ctx, character.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, character.PutInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, character.PutInput{Character: &entities.Character{Name: "No ID"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, character.PutInput{Character: testCharacter("char_1", "Vex", "tashas")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "char_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "char_1"})
	s.True(errors.IsNotFound(err))

	out, err := s.repo.ListAll(s.ctx, character.ListAllInput{})
	s.Require().NoError(err)
	s.Empty(out.Characters)
}

func (s *RepositoryTestSuite) TestListAllOrdersByName() {
	for _, c := range []*entities.Character{
		testCharacter("c3", "Zed", "tashas"),
		testCharacter("c1", "Ana", "srd"),
		testCharacter("c2", "Ana", "tashas"),
	} {
		_, err := s.repo.Put(s.ctx, character.PutInput{Character: c})
		s.Require().NoError(err)
	}

	all, err := s.repo.ListAll(s.ctx, character.ListAllInput{})
	s.Require().NoError(err)
	s.Equal([]string{"c1", "c2", "c3"}, ids(all.Characters))

	tashas, err := s.repo.ListAll(s.ctx, character.ListAllInput{RulesetID: "tashas"})
	s.Require().NoError(err)
	s.Equal([]string{"c2", "c3"}, ids(tashas.Characters))
}

func (s *RepositoryTestSuite) TestListAllEmpty() {
	out, err := s.repo.ListAll(s.ctx, character.ListAllInput{})
	s.Require().NoError(err)
	s.NotNil(out.Characters)
	s.Empty(out.Characters)
}

func ids(chars []*entities.Character) []string {
	out := make([]string, len(chars))
	for i, c := range chars {
		out[i] = c.ID
	}
	return out
}

func TestConfigValidation(t *testing.T) {
	_, err := character.NewRedis(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("NewRedis(nil) error = %v", err)
	}
	_, err = character.NewSQLite(&character.SQLiteConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("NewSQLite(empty) error = %v", err)
	}
}

type RedisFailureTestSuite struct {
	suite.Suite
	mock redismock.ClientMock
	repo character.Repository
	ctx  context.Context
}

func TestRedisFailures(t *testing.T) {
	suite.Run(t, new(RedisFailureTestSuite))
}

func (s *RedisFailureTestSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisFailureTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RedisFailureTestSuite) TestGetConnectionError() {
	s.mock.ExpectGet("character:char_1").SetErr(stderrors.New("connection refused"))

	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})

	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *RedisFailureTestSuite) TestPutFailsWhenLookupFails() {
	s.mock.ExpectGet("character:char_1").SetErr(stderrors.New("connection refused"))

	_, err := s.repo.Put(s.ctx, character.PutInput{Character: testCharacter("char_1", "Vex", "tashas")})

	s.Require().Error(err)
	s.False(errors.IsNotFound(err))
}

func (s *RedisFailureTestSuite) TestGetCorruptDocument() {
	s.mock.ExpectGet("character:char_1").SetVal("{not json")

	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})

	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *RedisFailureTestSuite) TestListAllIndexError() {
	s.mock.ExpectSMembers("character:all").SetErr(stderrors.New("timeout"))

	_, err := s.repo.ListAll(s.ctx, character.ListAllInput{})

	s.Require().Error(err)
}

func TestSQLiteClosedDB(t *testing.T) {
	db := testutils.CreateTestSQLiteDB(t)
	repo, err := character.NewSQLite(&character.SQLiteConfig{DB: db})
	if err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	_, err = repo.Put(context.Background(), character.PutInput{Character: testCharacter("c1", "Vex", "tashas")})
	if !errors.IsInternal(err) {
		t.Fatalf("Put on closed db error = %v", err)
	}
}
