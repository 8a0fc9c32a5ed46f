// Package docs registers the OpenAPI description served under /swagger.
// The template is maintained by hand next to the handler annotations;
// handlers.TestSwaggerCoversRoutes fails when a route is missing from it.
package docs

import "github.com/swaggo/swag"

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
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "token"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/cell/view": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["cell"], "summary": "Cell view", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CellView"}}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/robot/connect": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "Connect robot", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/handlers.ConnectRequest"}}],
                "responses": {"200": {"description": "status, robot"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/robot/start": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "Start program", "produces": ["application/json"],
                "responses": {"200": {"description": "status, robot"}, "404": {"description": "program not found"}, "409": {"description": "not connected"}}}
        },
        "/api/v1/robot/stop": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "Stop robot", "produces": ["application/json"],
                "responses": {"200": {"description": "status, robot"}, "409": {"description": "not connected"}}}
        },
        "/api/v1/robot/disconnect": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "Disconnect robot", "produces": ["application/json"],
                "responses": {"200": {"description": "status, robot"}}}
        },
        "/api/v1/robot/status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "Robot status", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RobotStatus"}}}}
        },
        "/api/v1/robot/programs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["robot"], "summary": "List programs", "produces": ["application/json"],
                "responses": {"200": {"description": "programs"}}}
        },
        "/api/v1/sensors": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["sensors"], "summary": "Read sensors", "produces": ["application/json"],
                "responses": {"200": {"description": "di3, di7, classification"}}}
        },
        "/api/v1/sensors/simulate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["sensors"], "summary": "Simulate sensors", "produces": ["application/json"],
                "responses": {"200": {"description": "di3, di7, classification"}, "409": {"description": "source cannot be simulated"}}}
        },
        "/api/v1/orders/{id}/fetch": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Fetch order", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": "Order ID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.OrderSnapshot"}}, "404": {"description": "error, order"}}}
        },
        "/api/v1/logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List logs", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "type", "type": "string",
                        "enum": ["CONNECT", "DISCONNECT", "POWER_ON", "BRAKE_RELEASE", "START", "STOP", "ORDER_FETCH", "SENSOR_SIMULATE", "ERROR"]}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "bad time, inverted range or unknown type"}}}
        },
        "/api/v1/admin/users": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create user", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "username, is_admin"}, "403": {"description": "Forbidden"}, "409": {"description": "user exists"}}}
        },
        "/api/v1/admin/orders/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create or update order", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "order_id, bag_count"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/admin/orders/seed": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Seed demo orders", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "force", "type": "boolean"}],
                "responses": {"200": {"description": "seeded"}}}
        },
        "/api/v1/admin/orders/reset": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Reset orders", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/logs/types": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["logs"], "summary": "List event types", "produces": ["application/json"],
                "responses": {"200": {"description": "types"}}}
        },
        "/ws": {
            "get": {"tags": ["cell"], "summary": "Live cell view",
                "description": "Sends the view on connect and on every new poller tick; {\"type\":\"refresh\"} re-sends it.",
                "parameters": [
                    {"in": "query", "name": "interval", "type": "string"},
                    {"in": "query", "name": "interval_ms", "type": "integer"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object", "required": ["username", "password"],
            "properties": {"username": {"type": "string", "example": "operator"}, "password": {"type": "string", "example": "secret"}}
        },
        "handlers.ConnectRequest": {
            "type": "object",
            "properties": {
                "host": {"type": "string", "example": "192.168.0.10"},
                "control_port": {"type": "integer", "example": 29999},
                "program_port": {"type": "integer", "example": 30002}
            }
        },
        "service.RobotStatus": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"}, "host": {"type": "string"}, "connected": {"type": "boolean"},
                "state": {"type": "string"}, "mode": {"type": "string"}, "program_running": {"type": "boolean"}
            }
        },
        "service.OrderSnapshot": {
            "type": "object",
            "properties": {"order_id": {"type": "string"}, "bag_count": {"type": "integer"}}
        },
        "models.CellView": {
            "type": "object",
            "properties": {
                "di3": {"type": "boolean"}, "di7": {"type": "boolean"},
                "classification": {"type": "string", "enum": ["LARGE", "SMALL", "PENDING"]},
                "step": {"type": "string"},
                "robot_connected": {"type": "boolean"}, "robot_state": {"type": "string"}, "robot_mode": {"type": "string"},
                "program_running": {"type": "boolean"},
                "order_id": {"type": "string"}, "bag_count": {"type": "integer"},
                "expected_classification": {"type": "string"},
                "verdict": {"type": "string", "enum": ["UNKNOWN", "MATCH", "MISMATCH"]},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Packaging Cell API",
	Description:      "Operator API for the packaging cell: robot session, sensors, order verification and event log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
