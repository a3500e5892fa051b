package entities

import (
	"encoding/json"
	"strconv"
)

// UnmarshalJSON accepts both ledger shapes found in stored characters: the
// canonical one keyed by level and the older flat map of choice id to picks.
// Picks may be a list or a single id.
func (c *Character) UnmarshalJSON(data []byte) error {
	type plain Character
	aux := struct {
		*plain
		Advancement json.RawMessage `json:"advancement"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.Advancement, c.LegacyAdvancement = decodeLedger(aux.Advancement)
	return nil
}

func decodeLedger(raw json.RawMessage) (map[string]AdvancementRecord, AdvancementRecord) {
	nested := map[string]AdvancementRecord{}
	if len(raw) == 0 {
		return nested, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nested, nil
	}

	var legacy AdvancementRecord
	for key, value := range entries {
		if _, err := strconv.Atoi(key); err == nil {
			nested[key] = decodeRecord(value)
			continue
		}
		if picks, ok := decodePicks(value); ok {
			if legacy == nil {
				legacy = AdvancementRecord{}
			}
			legacy[key] = picks
		}
	}
	return nested, legacy
}

func decodeRecord(raw json.RawMessage) AdvancementRecord {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return AdvancementRecord{}
	}
	record := make(AdvancementRecord, len(entries))
	for choiceID, value := range entries {
		if picks, ok := decodePicks(value); ok {
			record[choiceID] = picks
		}
	}
	return record
}

func decodePicks(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list, true
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}, true
	}
	return nil, false
}
