// Package docs registra el documento OpenAPI que sirve /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Registrar cuenta",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/accounts.AuthResponse"}},
                    "409": {"description": "account already exists"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accounts.AuthResponse"}},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/medicines": {
            "get": {
                "tags": ["medicines"],
                "summary": "Listar medicamentos",
                "parameters": [{"type": "string", "description": "Texto a buscar en el nombre", "name": "q", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/medicines.MedicineResponse"}}}}
            },
            "post": {
                "tags": ["medicines"],
                "summary": "Crear medicamento",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/medicines.MedicineResponse"}},
                    "400": {"description": "invalid json / invalid input"}
                }
            }
        },
        "/medicines/{medicineID}/take": {
            "post": {
                "tags": ["medicines"],
                "summary": "Registrar toma de una dosis",
                "parameters": [{"type": "integer", "description": "ID del medicamento", "name": "medicineID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medicines.MedicineResponse"}},
                    "404": {"description": "medicine not found"}
                }
            }
        },
        "/reminders/{reminderID}/taken": {
            "post": {
                "tags": ["reminders"],
                "summary": "Marcar recordatorio como tomado",
                "parameters": [{"type": "integer", "description": "ID del recordatorio", "name": "reminderID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "reminder not found"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Dashboard",
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            }
        },
        "/reports": {
            "post": {
                "tags": ["reports"],
                "summary": "Subir reporte",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "file", "description": "Archivo", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Categoría", "name": "category", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "413": {"description": "file too large"}}
            }
        }
    },
    "definitions": {
        "accounts.AccountResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "accounts.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/accounts.AccountResponse"}
            }
        },
        "medicines.MedicineResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "dosage": {"type": "string"},
                "frequency": {"type": "string"},
                "intake_times": {"type": "array", "items": {"type": "string"}},
                "stock": {"type": "integer"},
                "threshold": {"type": "integer"},
                "low_stock": {"type": "boolean"},
                "notes": {"type": "string"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
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
	Title:            "Medication Manager API",
	Description:      "Medicamentos, turnos, recordatorios y reportes médicos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
