package api

import "github.com/swaggo/swag"

// docTemplate is the Swagger 2.0 document for the /api/v1 routes, kept in
// step with the handler annotations in handlers.go.
const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/headers/encode": {
            "post": {
                "tags": ["codec"],
                "summary": "Encode a header",
                "description": "Pack a header into its one-byte form",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "header", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Header"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PackedHeader"}},
                    "400": {"description": "Malformed header, games above 15 or unknown speed or mode", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/headers/decode/{value}": {
            "get": {
                "tags": ["codec"],
                "summary": "Decode a byte",
                "description": "Unpack a byte given as decimal, 0x hex or 0b binary",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "value", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PackedHeader"}},
                    "400": {"description": "Not a byte", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "422": {"description": "Speed code 6 or 7", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/log": {
            "get": {
                "tags": ["log"],
                "summary": "List headers in the header log",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "start", "in": "query", "type": "integer", "default": 0},
                    {"name": "limit", "in": "query", "type": "integer", "default": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "400": {"description": "Bad start or limit", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            },
            "post": {
                "tags": ["log"],
                "summary": "Append a header to the header log",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "header", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Header"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/LogEntry"}},
                    "400": {"description": "Invalid header", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/log/{index}": {
            "get": {
                "tags": ["log"],
                "summary": "Get a header by index",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LogEntry"}},
                    "404": {"description": "No header at index", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["log"],
                "summary": "Header log statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LogStats"}}
                }
            }
        },
        "/batches": {
            "get": {
                "tags": ["batches"],
                "summary": "List batch ids",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/BatchResponse"}}}
                }
            },
            "post": {
                "tags": ["batches"],
                "summary": "Create a batch",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "batch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BatchResponse"}},
                    "400": {"description": "Invalid header in batch", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        },
        "/batches/{id}": {
            "get": {
                "tags": ["batches"],
                "summary": "Get a batch",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BatchResponse"}},
                    "404": {"description": "Batch not found", "schema": {"$ref": "#/definitions/APIResponse"}},
                    "422": {"description": "Stored batch does not decode", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            },
            "put": {
                "tags": ["batches"],
                "summary": "Replace the headers of a batch",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "batch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BatchResponse"}},
                    "404": {"description": "Batch not found", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            },
            "delete": {
                "tags": ["batches"],
                "summary": "Delete a batch",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "Header": {
            "type": "object",
            "properties": {
                "mode": {"type": "string", "enum": ["casual", "rated"]},
                "speed": {"type": "string", "enum": ["ultrabullet", "bullet", "blitz", "rapid", "classical", "correspondence"]},
                "games": {"type": "integer", "minimum": 0, "maximum": 15}
            }
        },
        "PackedHeader": {
            "type": "object",
            "properties": {
                "header": {"$ref": "#/definitions/Header"},
                "byte": {"type": "integer"},
                "hex": {"type": "string"},
                "binary": {"type": "string"}
            }
        },
        "LogEntry": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "header": {"$ref": "#/definitions/Header"},
                "byte": {"type": "integer"},
                "hex": {"type": "string"},
                "binary": {"type": "string"}
            }
        },
        "LogStats": {
            "type": "object",
            "properties": {
                "headers": {"type": "integer"},
                "games": {"type": "integer"},
                "size_bytes": {"type": "integer"},
                "by_speed": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_mode": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "BatchRequest": {
            "type": "object",
            "properties": {
                "headers": {"type": "array", "items": {"$ref": "#/definitions/Header"}}
            }
        },
        "BatchResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "headers": {"type": "array", "items": {"$ref": "#/definitions/Header"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "gamehdr API",
	Description:      "Encode and decode one-byte game headers, keep a header log and store header batches.",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
