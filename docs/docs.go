// Package docs registers the OpenAPI document of the libraria API with swag.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/v1/lending/lend": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "Lend a book to a member",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LendBookRequestBody"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/data.Lending"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/lending/return/{lendingId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "Return a lent book",
                "parameters": [{"type": "integer", "name": "lendingId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Lending"}},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/lending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "List lending records",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "status", "in": "query", "enum": ["all", "active", "overdue", "returned"]},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/data.Lending"}}},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/lending/overdue-returned": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "List returned records that were charged a fine",
                "parameters": [
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/data.Lending"}}}
                }
            }
        },
        "/v1/lending/overdue-returned/export": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "Export the fine report",
                "responses": {
                    "201": {"description": "Created"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/v1/lending/records/{lendingId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lending"],
                "summary": "Show a lending record",
                "parameters": [{"type": "integer", "name": "lendingId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Lending"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/books": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "List books in the catalog",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "genre", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/data.Book"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Add a book to the catalog",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateBookRequestBody"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/data.Book"}},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/books/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["books"],
                "summary": "Import books from a CSV file",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "413": {"description": "Request Entity Too Large"},
                    "415": {"description": "Unsupported Media Type"}
                }
            }
        },
        "/v1/books/{bookId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Show details of a book",
                "parameters": [{"type": "integer", "name": "bookId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Book"}}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Update details of a book",
                "parameters": [
                    {"type": "integer", "name": "bookId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateBookRequestBody"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Book"}}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Remove a book from the catalog",
                "parameters": [{"type": "integer", "name": "bookId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "List library members",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/data.Member"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Register a library member",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateMemberRequestBody"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/data.Member"}}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/members/{memberId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Show details of a member",
                "parameters": [{"type": "integer", "name": "memberId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Member"}}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Update details of a member",
                "parameters": [
                    {"type": "integer", "name": "memberId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateMemberRequestBody"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/data.Member"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Remove a member",
                "parameters": [{"type": "integer", "name": "memberId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/staff": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["staff"],
                "summary": "List staff accounts",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["staff"],
                "summary": "Create a staff account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateStaffRequestBody"}}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/staff/{staffId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["staff"],
                "summary": "Show a staff account",
                "parameters": [{"type": "integer", "name": "staffId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["staff"],
                "summary": "Update a staff account",
                "parameters": [{"type": "integer", "name": "staffId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["staff"],
                "summary": "Show the authenticated staff account",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/tokens/authentication": {
            "post": {
                "tags": ["tokens"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAuthenticationTokenRequestBody"}}],
                "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tokens"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/tokens/refresh": {
            "post": {
                "tags": ["tokens"],
                "summary": "Refresh a session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequestBody"}}],
                "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/v1/audit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["audit"],
                "summary": "List audit entries",
                "parameters": [
                    {"type": "string", "name": "action", "in": "query"},
                    {"type": "string", "name": "entity", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/healthcheck": {
            "get": {
                "tags": ["health"],
                "summary": "Report application status",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "data.Book": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "isbn": {"type": "string"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "genre": {"type": "string"},
                "description": {"type": "string"},
                "published_date": {"type": "string"},
                "copies_available": {"type": "integer"}
            }
        },
        "data.Member": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "member_id": {"type": "string"},
                "nic": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "data.Lending": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "book": {"$ref": "#/definitions/data.Book"},
                "member": {"$ref": "#/definitions/data.Member"},
                "lend_date": {"type": "string", "format": "date-time"},
                "due_date": {"type": "string", "format": "date-time"},
                "return_date": {"type": "string", "format": "date-time"},
                "is_returned": {"type": "boolean"},
                "fine_amount": {"type": "number"},
                "status": {"type": "string", "enum": ["active", "overdue", "returned"]},
                "days_overdue": {"type": "integer"}
            }
        },
        "dto.LendBookRequestBody": {
            "type": "object",
            "properties": {
                "member_id": {"type": "string"},
                "nic": {"type": "string"},
                "isbn": {"type": "string"}
            }
        },
        "dto.CreateBookRequestBody": {
            "type": "object",
            "properties": {
                "isbn": {"type": "string"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "genre": {"type": "string"},
                "description": {"type": "string"},
                "published_date": {"type": "string"},
                "copies_available": {"type": "integer"}
            }
        },
        "dto.CreateMemberRequestBody": {
            "type": "object",
            "properties": {
                "member_id": {"type": "string"},
                "nic": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "dto.CreateStaffRequestBody": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "librarian"]}
            }
        },
        "dto.CreateAuthenticationTokenRequestBody": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.RefreshTokenRequestBody": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Libraria API",
	Description:      "Book lending service for library staff.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
