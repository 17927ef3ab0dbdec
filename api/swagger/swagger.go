package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Italyna Reservations API",
        "description": "Reservation intake and availability service for the Italyna restaurant",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reservations", "description": "Guest reservation intake and availability"},
        {"name": "Admin", "description": "Back-office reservation workflow and settings"},
        {"name": "Authentication", "description": "Back-office authentication"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/reservations": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Submit a reservation request",
                "description": "Runs the intake checks and persists a pending reservation when the slot can take the party. A rejected request returns 200 with the rejection reason and persists nothing.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Reservation accepted as pending"},
                    "200": {"description": "Reservation rejected, reason in body"},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/api/v1/reservations/slots": {
            "get": {
                "tags": ["Reservations"],
                "summary": "List bookable time slots for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "Slot list, empty when closed"},
                    "400": {"description": "Missing or malformed date"}
                }
            }
        },
        "/api/v1/reservations/availability": {
            "get": {
                "tags": ["Reservations"],
                "summary": "Check whether a party fits a slot",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "time", "in": "query", "type": "string", "required": true},
                    {"name": "party_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Availability decision"},
                    "400": {"description": "Invalid parameters"},
                    "503": {"description": "Reservation store unreachable"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate back-office user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Authenticated user info"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/api/v1/admin/reservations": {
            "get": {
                "tags": ["Admin"],
                "summary": "List reservations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Paginated reservation list"}
                }
            }
        },
        "/api/v1/admin/reservations/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Update reservation status",
                "description": "Applies a status transition; confirming re-checks seating capacity inside a serialized transaction.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateReservationStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated reservation"},
                    "404": {"description": "Reservation not found"},
                    "409": {"description": "Invalid transition or capacity exceeded"}
                }
            }
        },
        "/api/v1/admin/reservations/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export a day's reservation book",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "description": "csv or pdf"}
                ],
                "responses": {
                    "200": {"description": "CSV or PDF document"},
                    "400": {"description": "Missing date or unknown format"}
                }
            }
        },
        "/api/v1/admin/settings": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get restaurant settings",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Opening hours and table capacity"},
                    "503": {"description": "Settings store unreachable"}
                }
            }
        },
        "/api/v1/admin/settings/opening-hours": {
            "put": {
                "tags": ["Admin"],
                "summary": "Replace the weekly opening hours",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateOpeningHoursRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved opening hours"},
                    "400": {"description": "Unknown weekday or inverted range"}
                }
            }
        },
        "/api/v1/admin/settings/table-capacity": {
            "put": {
                "tags": ["Admin"],
                "summary": "Replace the seating capacity settings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTableCapacityRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved capacity settings"},
                    "400": {"description": "Invalid capacity payload"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "CreateReservationRequest": {
            "type": "object",
            "required": ["guest_name", "guest_email", "guest_phone", "reservation_date", "reservation_time", "party_size"],
            "properties": {
                "guest_name": {"type": "string"},
                "guest_email": {"type": "string"},
                "guest_phone": {"type": "string"},
                "reservation_date": {"type": "string", "example": "2024-06-01"},
                "reservation_time": {"type": "string", "example": "19:00"},
                "party_size": {"type": "integer", "minimum": 1},
                "special_requests": {"type": "string"}
            }
        },
        "UpdateReservationStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "confirmed", "cancelled", "completed"]},
                "table_number": {"type": "integer"}
            }
        },
        "UpdateOpeningHoursRequest": {
            "type": "object",
            "required": ["hours"],
            "properties": {
                "hours": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/DayHours"}
                }
            }
        },
        "DayHours": {
            "type": "object",
            "properties": {
                "open": {"type": "string", "example": "11:00"},
                "close": {"type": "string", "example": "22:00"}
            }
        },
        "UpdateTableCapacityRequest": {
            "type": "object",
            "required": ["total_seats", "max_party_size"],
            "properties": {
                "total_seats": {"type": "integer"},
                "max_party_size": {"type": "integer"},
                "tables": {"type": "array", "items": {"$ref": "#/definitions/Table"}}
            }
        },
        "Table": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "seats": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
