// Package srd builds rulesets from the public D&D 5e SRD API
package srd

//go:generate mockgen -destination=mock/mock_client.go -package=srdmock github.com/KirkDiggler/rpg-sheet/internal/clients/srd Client

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	dndentities "github.com/fadedpez/dnd5e-api/entities"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/ruleset"
)

// Ruleset identity of SRD imports
const (
	RulesetID      = "srd-5e"
	RulesetName    = "D&D 5e SRD"
	RulesetVersion = "2014"
)

const (
	defaultBaseURL     = "https://www.dnd5eapi.co/api/2014/"
	defaultHTTPTimeout = 30 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	defaultConcurrency = 8
)

// API is the part of the dnd5e-api client the importer reads from
type API interface {
	GetClass(key string) (*dndentities.Class, error)
	GetClassLevel(key string, level int) (*dndentities.Level, error)
	GetFeature(key string) (*dndentities.Feature, error)
	ListSpells(input *dnd5e.ListSpellsInput) ([]*dndentities.ReferenceItem, error)
	GetSpell(key string) (*dndentities.Spell, error)
}

// Client builds ruleset documents from SRD data
type Client interface {
	// BuildRuleset returns a source document that ruleset.Parse accepts
	BuildRuleset(ctx context.Context, input *BuildRulesetInput) (*BuildRulesetOutput, error)
}

// BuildRulesetInput selects which classes and levels to import
type BuildRulesetInput struct {
	ClassIDs []string
	// MaxLevel caps progression; zero imports all twenty levels
	MaxLevel int
}

// BuildRulesetOutput carries the encoded document and what went into it
type BuildRulesetOutput struct {
	Document []byte
	Classes  []string
	Spells   int
}

// Config contains configuration options for the SRD client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to the 2014 SRD)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// Concurrency bounds in-flight API calls (optional, defaults to 8)
	Concurrency int
	// API replaces the HTTP client when set
	API API
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Concurrency < 0 {
		return errors.InvalidArgument("concurrency cannot be negative")
	}
	return nil
}

type client struct {
	api         API
	concurrency int
}

// New creates a new SRD client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := cfg.API
	if api == nil {
		baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: cfg.HTTPTimeout},
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create D&D 5e API client")
		}
		api = dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)
	}

	return &client{api: api, concurrency: cfg.Concurrency}, nil
}

func (c *client) BuildRuleset(ctx context.Context, input *BuildRulesetInput) (*BuildRulesetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	classIDs := normalizeClassIDs(input.ClassIDs)
	vb := errors.NewValidationBuilder()
	if len(classIDs) == 0 {
		vb.RequiredField("classIDs")
	}
	maxLevel := input.MaxLevel
	if maxLevel == 0 {
		maxLevel = entities.MaxLevel
	}
	errors.ValidateRange("maxLevel", maxLevel, entities.MinLevel, entities.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "building SRD ruleset",
		"classes", classIDs,
		"max_level", maxLevel)

	classes := make([]*classResult, len(classIDs))
	spellLists := make([][]*dndentities.ReferenceItem, len(classIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range classIDs {
		g.Go(func() error {
			res, err := c.buildClass(gctx, id, maxLevel)
			if err != nil {
				return err
			}
			classes[i] = res
			return nil
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			refs, err := c.api.ListSpells(&dnd5e.ListSpellsInput{Class: id})
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list spells").
					WithMeta("class_id", id)
			}
			spellLists[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, canceledOr(ctx, err)
	}

	spellKeys, lists := mergeSpellLists(classIDs, spellLists)
	spells, err := c.fetchSpells(ctx, spellKeys, lists)
	if err != nil {
		return nil, err
	}

	rs := assemble(classes, spells)
	doc, err := ruleset.Encode(rs)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "built SRD ruleset",
		"classes", len(rs.Classes),
		"spells", len(spells),
		"features", len(rs.FeaturesDictionary))

	return &BuildRulesetOutput{
		Document: doc,
		Classes:  classIDs,
		Spells:   len(spells),
	}, nil
}

// fetchSpells loads every spell's level, keeping the order of keys
func (c *client) fetchSpells(ctx context.Context, keys []string, lists map[string][]string) ([]*entities.Option, error) {
	spells := make([]*entities.Option, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			spell, err := c.api.GetSpell(key)
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get spell").
					WithMeta("spell", key)
			}
			spells[i] = spellOption(key, spell, lists[key])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, canceledOr(ctx, err)
	}
	return spells, nil
}

// mergeSpellLists collects unique spell keys in first-seen order and the
// requested classes whose list names each spell
func mergeSpellLists(classIDs []string, spellLists [][]*dndentities.ReferenceItem) ([]string, map[string][]string) {
	var keys []string
	lists := map[string][]string{}
	for i, refs := range spellLists {
		for _, ref := range refs {
			if ref == nil || ref.Key == "" {
				continue
			}
			if _, seen := lists[ref.Key]; !seen {
				keys = append(keys, ref.Key)
			}
			if !slices.Contains(lists[ref.Key], classIDs[i]) {
				lists[ref.Key] = append(lists[ref.Key], classIDs[i])
			}
		}
	}
	return keys, lists
}

func normalizeClassIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func canceledOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.WrapWithCode(err, errors.CodeCanceled, "SRD import canceled")
	}
	return err
}
