// Package rpgtoolkit bridges the advancement engine to rpg-toolkit: it wraps
// records as core entities, publishes ledger changes on a toolkit event bus
// and rolls ability scores with a toolkit dice roller.
package rpgtoolkit
