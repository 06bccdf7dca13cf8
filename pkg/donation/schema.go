package donation

// DefaultSchemaJSON is the JSON Schema donation files are validated
// against before parsing.
const DefaultSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["schema_version", "methods"],
  "properties": {
    "schema_version": {"type": "integer"},
    "handler_domain": {"type": "string"},
    "language": {"type": "string"},
    "global_parameters": {"type": "array"},
    "methods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["intent", "method", "phrases"],
        "properties": {
          "intent": {"type": "string"},
          "method": {"type": "string"},
          "phrases": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`
