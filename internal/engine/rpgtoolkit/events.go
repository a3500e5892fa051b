package rpgtoolkit

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Event types published after a character's ledger changes
const (
	EventLevelApplied  = "character.level_applied"
	EventLevelReverted = "character.level_reverted"
)

// Event context keys
const (
	ContextLevel     = "level"
	ContextClassID   = "class_id"
	ContextRulesetID = "ruleset_id"
	ContextGranted   = "granted"
)

// PublisherConfig contains configuration for the level event publisher
type PublisherConfig struct {
	EventBus events.EventBus
}

// Validate checks that all required dependencies are provided
func (c *PublisherConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.EventBus == nil {
		return errors.InvalidArgument("event bus is required")
	}
	return nil
}

// Publisher emits level events with the character as source and the
// ruleset as target
type Publisher struct {
	bus events.EventBus
}

// NewPublisher creates a level event publisher
func NewPublisher(cfg *PublisherConfig) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Publisher{bus: cfg.EventBus}, nil
}

// LevelApplied announces that a level's advancement was recorded
func (p *Publisher) LevelApplied(ctx context.Context, char *entities.Character, rs *entities.Ruleset, level int, granted []string) error {
	return p.publish(ctx, EventLevelApplied, char, rs, map[string]any{
		ContextLevel:   level,
		ContextGranted: granted,
	})
}

// LevelReverted announces that a level's advancement was undone
func (p *Publisher) LevelReverted(ctx context.Context, char *entities.Character, rs *entities.Ruleset, level int) error {
	return p.publish(ctx, EventLevelReverted, char, rs, map[string]any{
		ContextLevel: level,
	})
}

func (p *Publisher) publish(
	ctx context.Context,
	eventType string,
	char *entities.Character,
	rs *entities.Ruleset,
	contextData map[string]any,
) error {
	if char == nil {
		return errors.InvalidArgument("character is required")
	}

	var target core.Entity
	if rs != nil {
		target = WrapRuleset(rs)
	}

	event := events.NewGameEvent(eventType, WrapCharacter(char), target)
	event.Context().Set(ContextClassID, char.ClassID)
	event.Context().Set(ContextRulesetID, char.RulesetID)
	for k, v := range contextData {
		event.Context().Set(k, v)
	}

	if err := p.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event handler failed",
			"event_type", eventType,
			"character_id", char.ID,
			"error", err.Error())
		return errors.Wrapf(err, "failed to publish %s", eventType)
	}
	return nil
}

// GetIntContext reads an int value from the event context
func GetIntContext(event events.Event, key string) (int, bool) {
	v, ok := event.Context().Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// GetStringContext reads a string value from the event context
func GetStringContext(event events.Event, key string) (string, bool) {
	v, ok := event.Context().Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ExtractCharacter returns the character behind an event source or target
func ExtractCharacter(entity core.Entity) (*entities.Character, bool) {
	wrapped, ok := entity.(*CharacterEntity)
	if !ok || wrapped == nil {
		return nil, false
	}
	return wrapped.Character, true
}
