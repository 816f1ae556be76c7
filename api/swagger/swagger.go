package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutorbook API",
        "description": "User profiles, matches and month availability for tutors and mentors",
        "version": "0.1.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Users", "description": "User profiles"},
        {"name": "Availability", "description": "Weekly availability and bookable timeslots"},
        {"name": "Matches", "description": "Tutoring and mentoring matches"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List org users",
                "description": "Users of the given orgs. Admins of every requested org see full profiles, everyone else truncated ones",
                "parameters": [
                    {"name": "orgs", "in": "query", "required": true, "type": "string", "description": "Comma separated org IDs"},
                    {"name": "query", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 0},
                    {"name": "hitsPerPage", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/ResponseEnvelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/UserList"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "description": "Full profile for the user and their org admins, truncated profile otherwise",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/ResponseEnvelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/TruncatedUser"}}}]}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Month availability",
                "description": "Open 30 minute timeslots, every 15 minutes, for a user in one month",
                "produces": ["application/json", "text/csv", "application/pdf", "text/calendar"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "month", "in": "query", "required": true, "type": "integer", "minimum": 0, "maximum": 11},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf", "ics"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/ResponseEnvelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/MonthAvailability"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace weekly availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/ResponseEnvelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/UpdateAvailabilityRequest"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/matches/{id}": {
            "get": {
                "tags": ["Matches"],
                "summary": "Get match",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/ResponseEnvelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/Match"}}}]}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Timeslot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "from": {"type": "string", "format": "date-time"},
                "to": {"type": "string", "format": "date-time"}
            }
        },
        "MonthAvailability": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "month": {"type": "integer", "minimum": 0, "maximum": 11},
                "year": {"type": "integer"},
                "timeslots": {"type": "array", "items": {"$ref": "#/definitions/Timeslot"}}
            }
        },
        "TruncatedUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "photo": {"type": "string"},
                "bio": {"type": "string"},
                "orgs": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UserList": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/TruncatedUser"}},
                "hits": {"type": "integer"}
            }
        },
        "Match": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "org": {"type": "string"},
                "status": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "people": {"type": "array", "items": {"type": "object"}},
                "creator": {"type": "object"},
                "message": {"type": "string"},
                "time": {"$ref": "#/definitions/TimeWindow"}
            }
        },
        "TimeWindow": {
            "type": "object",
            "required": ["from", "to"],
            "properties": {
                "from": {"type": "string", "format": "date-time", "description": "Instant in the first week of January 1970"},
                "to": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateAvailabilityRequest": {
            "type": "object",
            "required": ["availability"],
            "properties": {
                "availability": {"type": "array", "items": {"$ref": "#/definitions/TimeWindow"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
