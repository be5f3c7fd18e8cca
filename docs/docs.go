// Package docs registers the OpenAPI description served at /swagger.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.TokenResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}},
        "/auth/logout": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}},
        "/auth/updateme": {"put": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Update own profile", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateMeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}}},
        "/auth/updatemypassword": {"put": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Change own password", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdatePasswordRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}}}}},
        "/auth/forgotpassword": {"post": {"tags": ["auth"], "summary": "Request a password reset email", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ForgotPasswordRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}},
        "/auth/resetpassword/{resettoken}": {"put": {"tags": ["auth"], "summary": "Reset password with an emailed token", "parameters": [{"in": "path", "name": "resettoken", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ResetPasswordRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}}}}},
        "/auth/users": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}}},
        "/auth/user": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create user", "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/handler.CreateUserRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}}}},
        "/auth/user/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get user by id", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update user", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateUserRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete user", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}}
        },
        "/products": {
            "get": {"tags": ["products"], "summary": "List products", "parameters": [{"in": "query", "name": "seller", "type": "string"}, {"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "limit", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Create product", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.CreateProductRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.DataResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}
        },
        "/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get product by id", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Update product", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateProductRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Delete product", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}}
        },
        "/products/{id}/reviews": {
            "get": {"tags": ["reviews"], "summary": "List reviews of a product", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Review a product", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.CreateReviewRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.DataResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}}}
        },
        "/reviews": {"get": {"tags": ["reviews"], "summary": "List reviews", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ListResponse"}}}}},
        "/reviews/{id}": {
            "get": {"tags": ["reviews"], "summary": "Get review by id", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Update review", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateReviewRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Delete review", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DataResponse"}}}}
        }
    },
    "definitions": {
        "errors.ErrorResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}},
        "handler.DataResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "data": {}}},
        "handler.ListResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "count": {"type": "integer"}, "data": {}}},
        "handler.MessageResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}},
        "handler.TokenResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "token": {"type": "string"}}},
        "handler.RegisterRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"name": {"type": "string", "maxLength": 50}, "email": {"type": "string"}, "phone": {"type": "string", "maxLength": 20}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["user", "seller"]}}},
        "handler.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.UpdateMeRequest": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 50}, "email": {"type": "string"}, "phone": {"type": "string", "maxLength": 20}}},
        "handler.UpdatePasswordRequest": {"type": "object", "required": ["currentPassword", "newPassword"], "properties": {"currentPassword": {"type": "string"}, "newPassword": {"type": "string", "minLength": 6}}},
        "handler.ForgotPasswordRequest": {"type": "object", "required": ["email"], "properties": {"email": {"type": "string"}}},
        "handler.ResetPasswordRequest": {"type": "object", "required": ["password"], "properties": {"password": {"type": "string", "minLength": 6}}},
        "handler.CreateUserRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"name": {"type": "string", "maxLength": 50}, "email": {"type": "string"}, "phone": {"type": "string", "maxLength": 20}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["user", "seller", "admin"]}}},
        "handler.UpdateUserRequest": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 50}, "email": {"type": "string"}, "phone": {"type": "string", "maxLength": 20}, "password": {"type": "string", "minLength": 6}, "role": {"type": "string", "enum": ["user", "seller", "admin"]}}},
        "handler.CreateProductRequest": {"type": "object", "required": ["description", "price", "productType", "title"], "properties": {"title": {"type": "string", "maxLength": 50}, "productType": {"type": "string", "maxLength": 50}, "description": {"type": "string", "maxLength": 500}, "photo": {"type": "string"}, "price": {"type": "number"}, "seller": {"type": "string"}}},
        "handler.UpdateProductRequest": {"type": "object", "properties": {"title": {"type": "string", "maxLength": 50}, "productType": {"type": "string", "maxLength": 50}, "description": {"type": "string", "maxLength": 500}, "photo": {"type": "string"}, "price": {"type": "number"}}},
        "handler.CreateReviewRequest": {"type": "object", "required": ["rating", "text", "title"], "properties": {"title": {"type": "string", "maxLength": 100}, "text": {"type": "string", "maxLength": 500}, "rating": {"type": "integer", "minimum": 1, "maximum": 5}, "photo": {"type": "string"}}},
        "handler.UpdateReviewRequest": {"type": "object", "properties": {"title": {"type": "string", "maxLength": 100}, "text": {"type": "string", "maxLength": 500}, "rating": {"type": "integer", "minimum": 1, "maximum": 5}, "photo": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Marketplace API",
	Description:      "Marketplace API with users, products and reviews, JWT authentication and role based access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
