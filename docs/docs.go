// Package docs holds the swagger document served at /swagger/. It is kept by
// hand in step with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@hirely.app"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Check if the API is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.RegisterResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Major not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "Email or name already taken", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.AuthTokens"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request a password reset code",
                "parameters": [
                    {
                        "description": "Account email",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.ForgotPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/verify-reset-token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Check a password reset code",
                "parameters": [
                    {
                        "description": "Email and code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.VerifyResetTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "400": {"description": "Code mismatch or expired", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "No reset requested", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many wrong codes", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Reset password with a code",
                "parameters": [
                    {
                        "description": "Email, code and new password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.ResetPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "400": {"description": "Code mismatch, expired or weak password", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "No reset requested", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many wrong codes", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/user/majors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "List majors",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/user.Major"}}}
                }
            }
        },
        "/user/data": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Get my profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/user/update": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Update my profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/user.UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.ProfileResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "Confirmation required or duplicate email/name", "schema": {"$ref": "#/definitions/user.ConfirmationRequiredResponse"}}
                }
            }
        },
        "/user/major": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Change my major",
                "parameters": [
                    {
                        "description": "New major",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/user.UpdateMajorRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.MajorResponse"}},
                    "404": {"description": "Major not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/user.ConfirmationRequiredResponse"}}
                }
            }
        },
        "/user/picture": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Upload profile picture",
                "parameters": [
                    {
                        "type": "file",
                        "description": "JPEG, PNG, GIF or WebP image up to 5 MiB",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.PictureResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "415": {"description": "Unsupported media type", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/skills/list": {
            "get": {
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "List skills",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive name filter", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/skill.Skill"}}}
                }
            }
        },
        "/skills/add-user": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "Add skills to my profile",
                "parameters": [
                    {
                        "description": "Skill ids",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/skill.AddUserSkillsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/skill.AddResult"}},
                    "404": {"description": "Skill not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/skills/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "List my skills",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/skill.Skill"}}}
                }
            }
        },
        "/skills/user/{skillID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "Remove a skill from my profile",
                "parameters": [
                    {"type": "integer", "description": "Skill id", "name": "skillID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httputil.MessageResponse"}},
                    "404": {"description": "Skill not on profile", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/results/match-result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matching"],
                "summary": "Run job matching",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.Match"}}},
                    "404": {"description": "Major not set", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "502": {"description": "Inference failed", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/results/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matching"],
                "summary": "Get my last match results",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.SavedMatch"}}},
                    "404": {"description": "No history", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "httputil.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "confirm_password", "phone_number"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"},
                "phone_number": {"type": "string"},
                "gender": {"type": "string", "enum": ["Male", "Female", "Other"]},
                "description": {"type": "string"},
                "work_experience": {"type": "integer"},
                "academic_level": {"type": "string"},
                "picture_url": {"type": "string"},
                "major_id": {"type": "integer"},
                "terms_accepted": {"type": "boolean"}
            }
        },
        "auth.RegisterResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.AuthTokens": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "auth.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "auth.VerifyResetTokenRequest": {
            "type": "object",
            "required": ["email", "token"],
            "properties": {
                "email": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "auth.ResetPasswordRequest": {
            "type": "object",
            "required": ["email", "token", "new_password", "confirm_password"],
            "properties": {
                "email": {"type": "string"},
                "token": {"type": "string"},
                "new_password": {"type": "string"},
                "confirm_password": {"type": "string"}
            }
        },
        "user.Major": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "user.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "gender": {"type": "string"},
                "description": {"type": "string"},
                "work_experience": {"type": "integer"},
                "academic_level": {"type": "string"},
                "picture_url": {"type": "string"},
                "major": {"$ref": "#/definitions/user.Major"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "user.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "gender": {"type": "string"},
                "description": {"type": "string"},
                "work_experience": {"type": "integer"},
                "academic_level": {"type": "string"},
                "major_id": {"type": "integer", "x-nullable": true, "description": "null removes the major"},
                "confirm_clear": {"type": "boolean"}
            }
        },
        "user.ProfileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/user.User"},
                "warning": {"type": "string"}
            }
        },
        "user.UpdateMajorRequest": {
            "type": "object",
            "required": ["major_id"],
            "properties": {
                "major_id": {"type": "integer"},
                "confirm_clear": {"type": "boolean"}
            }
        },
        "user.MajorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "major": {"$ref": "#/definitions/user.Major"},
                "changed": {"type": "boolean"},
                "removed_skills": {"type": "integer"},
                "warning": {"type": "string"}
            }
        },
        "user.ConfirmationRequiredResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "warning": {"type": "string"},
                "skill_count": {"type": "integer"}
            }
        },
        "user.PictureResponse": {
            "type": "object",
            "properties": {
                "picture_url": {"type": "string"}
            }
        },
        "skill.Skill": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "skill.AddUserSkillsRequest": {
            "type": "object",
            "required": ["skill_ids"],
            "properties": {
                "skill_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "skill.AddResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "added_skills": {"type": "array", "items": {"type": "integer"}},
                "already_have": {"type": "array", "items": {"$ref": "#/definitions/skill.Rejection"}},
                "not_found": {"type": "array", "items": {"$ref": "#/definitions/skill.Rejection"}}
            }
        },
        "skill.Rejection": {
            "type": "object",
            "properties": {
                "skill_id": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "matching.Match": {
            "type": "object",
            "properties": {
                "job_title": {"type": "string"},
                "company": {"type": "string"},
                "category": {"type": "string"},
                "snippet": {"type": "string"},
                "apply_now": {"type": "string"}
            }
        },
        "matching.SavedMatch": {
            "type": "object",
            "properties": {
                "job_title": {"type": "string"},
                "company": {"type": "string"},
                "apply_now": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hirely API",
	Description:      "Job matching backend: accounts, password reset, profiles, skills and AI job recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
