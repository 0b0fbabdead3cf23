package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hostel Management API",
        "description": "Room admission, occupancy and hostel administration",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Admissions", "description": "Capacity-gated student placement"},
        {"name": "Students", "description": "Resident records"},
        {"name": "Rooms", "description": "Room inventory and occupancy"},
        {"name": "Hostels", "description": "Hostel buildings"},
        {"name": "Fees", "description": "Fee records and reports"},
        {"name": "Employees", "description": "Hostel staff"},
        {"name": "Dashboard", "description": "Admin aggregates"},
        {"name": "Auth", "description": "Token issuance"}
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
                    "503": {"description": "A dependency is down"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/admissions": {
            "post": {
                "tags": ["Admissions"],
                "summary": "Admit a student into a room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdmitStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Admitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Room or hostel not found"},
                    "409": {"description": "Room full or duplicate student"},
                    "503": {"description": "Storage unavailable, retryable"}
                }
            }
        },
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "hostelId", "in": "query", "type": "integer"},
                    {"name": "roomNo", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student's profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Admissions"],
                "summary": "Remove a student, vacating their room slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Released"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/students/{id}/reassign": {
            "put": {
                "tags": ["Admissions"],
                "summary": "Move a student to another room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReassignStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Moved"},
                    "404": {"description": "Student or room not found"},
                    "409": {"description": "Target room full"}
                }
            }
        },
        "/api/v1/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Register a room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/rooms/{no}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get a room",
                "parameters": [
                    {"name": "no", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update capacity or type",
                "parameters": [
                    {"name": "no", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Capacity below current occupancy"}
                }
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete an empty room",
                "parameters": [
                    {"name": "no", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Room still has occupants"}
                }
            }
        },
        "/api/v1/rooms/{no}/occupancy": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get a room's live occupancy",
                "parameters": [
                    {"name": "no", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RoomOccupancy"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/hostels": {
            "get": {
                "tags": ["Hostels"],
                "summary": "List hostels",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Hostels"],
                "summary": "Register a hostel",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/fees": {
            "get": {
                "tags": ["Fees"],
                "summary": "List fees",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Fees"],
                "summary": "Raise a fee",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/fees/report": {
            "get": {
                "tags": ["Fees"],
                "summary": "Export the fee status report",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/api/v1/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List staff",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Register a staff member",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard aggregates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AdmitStudentRequest": {
            "type": "object",
            "required": ["student_id", "name", "course", "mess_plan", "laundry_plan", "hostel_id", "room_no"],
            "properties": {
                "student_id": {"type": "string"},
                "name": {"type": "string"},
                "course": {"type": "string"},
                "mess_plan": {"type": "string"},
                "laundry_plan": {"type": "string"},
                "hostel_id": {"type": "integer"},
                "room_no": {"type": "integer"}
            }
        },
        "ReassignStudentRequest": {
            "type": "object",
            "required": ["room_no"],
            "properties": {
                "room_no": {"type": "integer"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "course": {"type": "string"},
                "mess_plan": {"type": "string"},
                "laundry_plan": {"type": "string"}
            }
        },
        "RoomRequest": {
            "type": "object",
            "required": ["room_no", "capacity", "room_type"],
            "properties": {
                "room_no": {"type": "integer"},
                "capacity": {"type": "integer", "minimum": 1},
                "room_type": {"type": "string", "enum": ["Single", "Double", "Triple", "Dormitory"]}
            }
        },
        "RoomOccupancy": {
            "type": "object",
            "properties": {
                "room_no": {"type": "integer"},
                "capacity": {"type": "integer"},
                "occupancy": {"type": "integer"}
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
