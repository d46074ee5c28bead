package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Connect API",
        "description": "Social and academic planning backend for university students.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Token issuance"},
        {"name": "Posts", "description": "Student feed"},
        {"name": "Teachers", "description": "Teacher roster and reviews"},
        {"name": "Timetables", "description": "Timetable planning and export"},
        {"name": "Social", "description": "Friends and hangouts"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["Posts"],
                "summary": "List posts with media and reaction counts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "author_erp", "in": "query", "type": "integer"},
                    {"name": "visibility", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Posts"],
                "summary": "Create a post with its media resources",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid properties", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{teacher_id}/reviews": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List reviews of a teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "teacher_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/teacher-reviews": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Review a teacher and update the rating aggregate",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate review", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher-reviews/{review_id}": {
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete a review and update the rating aggregate",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "review_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetable_id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a timetable with its classes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "timetable_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/timetables/{timetable_id}/classes": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Add a class, rejecting schedule conflicts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "timetable_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddTimetableClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Class conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{timetable_id}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a timetable",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "timetable_id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate conflict-free timetables",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/friend-requests/{friend_request_id}/accept": {
            "post": {
                "tags": ["Social"],
                "summary": "Accept a friend request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "friend_request_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateTeacherReviewRequest": {
            "type": "object",
            "required": ["teacher_id", "subject_code", "learning", "grading", "attendance", "difficulty"],
            "properties": {
                "teacher_id": {"type": "integer"},
                "subject_code": {"type": "string"},
                "learning": {"type": "integer", "minimum": 1, "maximum": 5},
                "grading": {"type": "integer", "minimum": 1, "maximum": 5},
                "attendance": {"type": "integer", "minimum": 1, "maximum": 5},
                "difficulty": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string"}
            }
        },
        "AddTimetableClassRequest": {
            "type": "object",
            "required": ["class_nbr"],
            "properties": {"class_nbr": {"type": "string"}}
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["term_id", "subjects"],
            "properties": {
                "term_id": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ResponseHeaders": {
            "type": "object",
            "properties": {
                "error": {"type": "integer"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "headers": {"$ref": "#/definitions/ResponseHeaders"},
                "body": {"type": "object"}
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
