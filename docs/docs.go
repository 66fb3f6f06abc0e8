// Package docs holds the swagger document served at /swagger/*any.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register operator",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/panel/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Get panel state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PanelState"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/panel/solenoid": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Queues a watering job. queued=false means another job is already running.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Trigger solenoid",
                "parameters": [
                    {"description": "Solenoid selection", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.SolenoidRequest"}},
                    {"enum": ["S0", "S1", "S2", "S3"], "type": "string", "description": "Solenoid id when no body is sent", "name": "id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SolenoidResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/panel/simulate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Restarts synthetic flow pulses at hz. Any running simulation is stopped first, also when hz is rejected. hz=0 only stops.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Start flow simulation",
                "parameters": [
                    {"description": "Rate payload", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.SimulateRequest"}},
                    {"type": "string", "description": "Rate when no body is sent", "name": "hz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "status, simulation, state", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/panel/simulate/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["panel"],
                "summary": "Stop flow simulation",
                "responses": {
                    "200": {"description": "status, simulation, state", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Range bounds accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'. A date-only 'to' includes the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List operator actions",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["SOLENOID_TRIGGER", "SIMULATION_START", "SIMULATION_STOP"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LogsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Websocket upgrade. Pushes {\"type\":\"state\",\"data\":PanelState} every interval (default 500ms, 50ms to 10s).",
                "tags": ["panel"],
                "summary": "Panel state stream",
                "parameters": [
                    {"type": "string", "description": "Go duration, e.g. 1s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Interval in milliseconds", "name": "interval_ms", "in": "query"},
                    {"type": "string", "description": "Operator token when no Authorization header can be sent", "name": "access_token", "in": "query"}
                ],
                "responses": {
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.LogsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.PanelEvent"}}
            }
        },
        "models.PanelEvent": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "occurred_at": {"type": "string"},
                "type": {"type": "string"},
                "description": {"type": "string"},
                "metadata": {}
            }
        },
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.SolenoidRequest": {
            "type": "object",
            "properties": {"id": {"description": "Solenoid identifier, S0 to S3", "type": "string", "example": "S0"}}
        },
        "handlers.SolenoidResponse": {
            "type": "object",
            "properties": {
                "queued": {"type": "boolean", "example": true},
                "result": {"type": "string", "example": "Result: Successfully queued"}
            }
        },
        "handlers.SimulateRequest": {
            "type": "object",
            "properties": {"hz": {"description": "Pulses per second, 0 to 120", "type": "string", "example": "10"}}
        },
        "models.PanelState": {
            "type": "object",
            "properties": {
                "video_feed": {"type": "string"},
                "status": {"type": "string"},
                "job_result": {"type": "string"},
                "flow": {"type": "string"},
                "watermark": {"type": "string"},
                "simulation_hz": {"type": "number"},
                "simulating": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token from /auth/sign-in.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Garden panel API",
	Description:      "Control panel for the solenoid watering rig: camera, status, solenoid jobs and flow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
