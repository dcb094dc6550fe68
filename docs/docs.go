// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "description": "Create a user with one or more roles and their profiles, and start a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register new user",
                "parameters": [
                    {
                        "description": "Registration data",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.RegisterInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with email and password and start a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login user",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.LoginInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Revoke the presented token and clear the session cookie",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Logout user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/patients/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Patients"],
                "summary": "Get own patient profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Only the supplied fields change",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Patients"],
                "summary": "Update own patient profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.UpdatePatientInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/patients/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Patients"],
                "summary": "Get patient profile by user ID",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get a paginated list of users with their roles (Admin only)",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List all users",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"},
                "details": {}
            }
        },
        "services.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.RegisterInput": {
            "type": "object",
            "required": ["email", "name", "password", "roles"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "maxLength": 72, "minLength": 8},
                "name": {"type": "string"},
                "age": {"type": "integer"},
                "phone": {"type": "string"},
                "gender": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string", "enum": ["patient", "doctor", "staff", "admin"]}},
                "patientProfile": {"$ref": "#/definitions/domain.PatientProfile"},
                "doctorProfile": {"$ref": "#/definitions/domain.DoctorProfile"},
                "staffProfile": {"$ref": "#/definitions/domain.StaffProfile"}
            }
        },
        "services.UpdatePatientInput": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "bloodGroup": {"type": "string", "enum": ["A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"]},
                "diagnosis": {"type": "string"},
                "allergies": {"type": "string"}
            }
        },
        "domain.PatientProfile": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "bloodGroup": {"type": "string"},
                "diagnosis": {"type": "string"},
                "allergies": {"type": "string"}
            }
        },
        "domain.DoctorProfile": {
            "type": "object",
            "required": ["facilityId"],
            "properties": {
                "facilityId": {"type": "string"},
                "specialization": {"type": "string"},
                "licenseNumber": {"type": "string"}
            }
        },
        "domain.StaffProfile": {
            "type": "object",
            "required": ["facilityId"],
            "properties": {
                "facilityId": {"type": "string"},
                "position": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Arogya Records API",
	Description:      "Healthcare records backend: registration, sessions and patient profiles",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
