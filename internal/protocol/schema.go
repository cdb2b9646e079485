package protocol

// JSON schemas for the wire messages. Kept next to the structs so the
// two cannot drift without a test noticing.

const HelloSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "protocol_version", "player_name"],
  "properties": {
    "type": {"const": "HELLO"},
    "protocol_version": {"type": "string"},
    "player_name": {"type": "string", "minLength": 1},
    "observer": {"type": "boolean"}
  },
  "additionalProperties": false
}`

const ActSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "act"],
  "properties": {
    "type": {"const": "ACT"},
    "seq": {"type": "integer", "minimum": 0},
    "act": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "slot": {"type": "integer"},
        "to": {"type": "integer"},
        "count": {"type": "integer"},
        "index": {"type": "integer"},
        "all": {"type": "boolean"},
        "pos": {"type": "array", "items": {"type": "integer"}, "minItems": 3, "maxItems": 3},
        "kind": {"type": "string"},
        "facing": {"type": "integer", "minimum": 0, "maximum": 4},
        "line": {"type": "integer"},
        "text": {"type": "string"},
        "amount": {"type": "integer"},
        "cause": {"type": "string"},
        "killer": {"type": "string"},
        "rule": {"type": "string"},
        "value": {"type": "boolean"},
        "x": {"type": "number"},
        "y": {"type": "number"},
        "z": {"type": "number"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

const StateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "tick", "players"],
  "properties": {
    "type": {"const": "STATE"},
    "tick": {"type": "integer", "minimum": 0},
    "players": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "pos", "health", "hunger", "level", "alive", "selected_hotbar"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "pos": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3},
          "dimension": {"type": "string"},
          "health": {"type": "integer", "minimum": 0, "maximum": 20},
          "hunger": {"type": "integer", "minimum": 0, "maximum": 20},
          "level": {"type": "integer", "minimum": 0},
          "alive": {"type": "boolean"},
          "selected_hotbar": {"type": "integer", "minimum": 0, "maximum": 8},
          "held": {
            "type": "object",
            "required": ["item", "count"],
            "properties": {
              "item": {"type": "string"},
              "count": {"type": "integer", "minimum": 1},
              "durability": {"type": "integer"}
            },
            "additionalProperties": false
          }
        },
        "additionalProperties": false
      }
    },
    "tiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "pos"],
        "properties": {
          "kind": {"type": "string"},
          "pos": {"type": "array", "items": {"type": "integer"}, "minItems": 3, "maxItems": 3}
        },
        "additionalProperties": false
      }
    },
    "dropped": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "item", "count", "pos"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "item": {"type": "string"},
          "count": {"type": "integer", "minimum": 1},
          "pos": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3},
          "dimension": {"type": "string"}
        },
        "additionalProperties": false
      }
    },
    "rules": {"type": "object", "additionalProperties": {"type": "boolean"}}
  },
  "additionalProperties": false
}`
