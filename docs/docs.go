// Package docs содержит описание API для swagger. Обновляется командой swag init -g cmd/hustlefinder/main.go.
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
        "/api/auth/sign-up": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Регистрация",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/signup.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/signup.Request"
                        }
                    }
                ]
            }
        },
        "/api/auth/sign-in": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Вход",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/signin.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/signin.Request"
                        }
                    }
                ]
            }
        },
        "/api/auth/session": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Текущая сессия",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/session.Response"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/auth/sign-out": {
            "post": {
                "tags": [
                    "Auth"
                ],
                "summary": "Выход",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/generate-hustles": {
            "post": {
                "tags": [
                    "Hustles"
                ],
                "summary": "Генерация идей",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/generate.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.HustleProfile"
                        }
                    },
                    {
                        "type": "string",
                        "description": "Идентификатор устройства",
                        "name": "X-Device-ID",
                        "in": "header"
                    }
                ]
            }
        },
        "/api/usage": {
            "get": {
                "tags": [
                    "Hustles"
                ],
                "summary": "Остаток генераций",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/usage.Response"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Идентификатор устройства",
                        "name": "X-Device-ID",
                        "in": "header"
                    }
                ]
            }
        },
        "/api/profile": {
            "get": {
                "tags": [
                    "Profile"
                ],
                "summary": "Профиль пользователя",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profile.Response"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/db/select": {
            "post": {
                "tags": [
                    "DB"
                ],
                "summary": "Выборка данных пользователя",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/db.Request"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/db/update": {
            "post": {
                "tags": [
                    "DB"
                ],
                "summary": "Изменение профиля",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/db.Request"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/db/upsert": {
            "post": {
                "tags": [
                    "DB"
                ],
                "summary": "Запись результата по идее",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/db.Request"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/create-checkout-session": {
            "post": {
                "tags": [
                    "Billing"
                ],
                "summary": "Оплата подписки",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/checkout.Response"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/create-portal-session": {
            "post": {
                "tags": [
                    "Billing"
                ],
                "summary": "Портал подписки",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/portal.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Адрес возврата",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/portal.Request"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/stripe-webhook": {
            "post": {
                "tags": [
                    "Billing"
                ],
                "summary": "Вебхук платежей",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/webhook.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Подпись события",
                        "name": "Stripe-Signature",
                        "in": "header",
                        "required": true
                    }
                ]
            }
        },
        "/api/send-email": {
            "post": {
                "tags": [
                    "Notifications"
                ],
                "summary": "Отправка письма",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/sendemail.Response"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Тело запроса",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/sendemail.Request"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Проверка здоровья",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/health.Response"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                }
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "Error"
                },
                "error": {
                    "type": "string",
                    "example": "invalid request body"
                }
            }
        },
        "signup.Request": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "displayName": {
                    "type": "string"
                }
            }
        },
        "signup.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "user": {
                    "type": "object",
                    "properties": {
                        "id": {
                            "type": "string"
                        },
                        "email": {
                            "type": "string"
                        },
                        "display_name": {
                            "type": "string"
                        },
                        "tier": {
                            "type": "string"
                        },
                        "usage_count": {
                            "type": "integer"
                        },
                        "usage_reset_date": {
                            "type": "string"
                        },
                        "notifications": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "boolean"
                                },
                                "weekly_tips": {
                                    "type": "boolean"
                                },
                                "product_updates": {
                                    "type": "boolean"
                                }
                            }
                        },
                        "created_at": {
                            "type": "string"
                        },
                        "updated_at": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "signin.Request": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "signin.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "session": {
                    "type": "object",
                    "properties": {
                        "token": {
                            "type": "string"
                        },
                        "expiresAt": {
                            "type": "string"
                        },
                        "refreshed": {
                            "type": "boolean"
                        },
                        "user": {
                            "type": "object",
                            "properties": {
                                "id": {
                                    "type": "string"
                                },
                                "email": {
                                    "type": "string"
                                },
                                "display_name": {
                                    "type": "string"
                                },
                                "tier": {
                                    "type": "string"
                                },
                                "usage_count": {
                                    "type": "integer"
                                },
                                "usage_reset_date": {
                                    "type": "string"
                                },
                                "notifications": {
                                    "type": "object",
                                    "properties": {
                                        "email": {
                                            "type": "boolean"
                                        },
                                        "weekly_tips": {
                                            "type": "boolean"
                                        },
                                        "product_updates": {
                                            "type": "boolean"
                                        }
                                    }
                                },
                                "created_at": {
                                    "type": "string"
                                },
                                "updated_at": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                }
            }
        },
        "session.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "session": {
                    "type": "object",
                    "properties": {
                        "token": {
                            "type": "string"
                        },
                        "expiresAt": {
                            "type": "string"
                        },
                        "refreshed": {
                            "type": "boolean"
                        },
                        "user": {
                            "type": "object",
                            "properties": {
                                "id": {
                                    "type": "string"
                                },
                                "email": {
                                    "type": "string"
                                },
                                "display_name": {
                                    "type": "string"
                                },
                                "tier": {
                                    "type": "string"
                                },
                                "usage_count": {
                                    "type": "integer"
                                },
                                "usage_reset_date": {
                                    "type": "string"
                                },
                                "notifications": {
                                    "type": "object",
                                    "properties": {
                                        "email": {
                                            "type": "boolean"
                                        },
                                        "weekly_tips": {
                                            "type": "boolean"
                                        },
                                        "product_updates": {
                                            "type": "boolean"
                                        }
                                    }
                                },
                                "created_at": {
                                    "type": "string"
                                },
                                "updated_at": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                }
            }
        },
        "models.HustleProfile": {
            "type": "object",
            "required": [
                "interest",
                "budget",
                "time"
            ],
            "properties": {
                "interest": {
                    "type": "string"
                },
                "budget": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                },
                "customInterest": {
                    "type": "string"
                },
                "customBudget": {
                    "type": "string"
                },
                "customTime": {
                    "type": "string"
                }
            }
        },
        "generate.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "hustles": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {
                                "type": "string"
                            },
                            "description": {
                                "type": "string"
                            },
                            "estimatedProfit": {
                                "type": "string"
                            },
                            "startupCost": {
                                "type": "string"
                            },
                            "timeCommitment": {
                                "type": "string"
                            },
                            "requiredSkills": {
                                "type": "array",
                                "items": {
                                    "type": "string"
                                }
                            },
                            "potentialChallenges": {
                                "type": "string"
                            },
                            "learnMoreLink": {
                                "type": "string"
                            }
                        }
                    }
                },
                "provider": {
                    "type": "string"
                },
                "fallback": {
                    "type": "boolean"
                },
                "usage": {
                    "type": "object",
                    "properties": {
                        "tier": {
                            "type": "string"
                        },
                        "used": {
                            "type": "integer"
                        },
                        "limit": {
                            "type": "integer"
                        },
                        "remaining": {
                            "type": "integer"
                        },
                        "daysUntilReset": {
                            "type": "integer"
                        },
                        "resetAt": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "usage.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "usage": {
                    "type": "object",
                    "properties": {
                        "tier": {
                            "type": "string"
                        },
                        "used": {
                            "type": "integer"
                        },
                        "limit": {
                            "type": "integer"
                        },
                        "remaining": {
                            "type": "integer"
                        },
                        "daysUntilReset": {
                            "type": "integer"
                        },
                        "resetAt": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "profile.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "profile": {
                    "type": "object",
                    "properties": {
                        "id": {
                            "type": "string"
                        },
                        "email": {
                            "type": "string"
                        },
                        "display_name": {
                            "type": "string"
                        },
                        "tier": {
                            "type": "string"
                        },
                        "usage_count": {
                            "type": "integer"
                        },
                        "usage_reset_date": {
                            "type": "string"
                        },
                        "notifications": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "boolean"
                                },
                                "weekly_tips": {
                                    "type": "boolean"
                                },
                                "product_updates": {
                                    "type": "boolean"
                                }
                            }
                        },
                        "created_at": {
                            "type": "string"
                        },
                        "updated_at": {
                            "type": "string"
                        }
                    }
                },
                "degraded": {
                    "type": "boolean"
                }
            }
        },
        "db.Request": {
            "type": "object",
            "required": [
                "table"
            ],
            "properties": {
                "table": {
                    "type": "string",
                    "enum": [
                        "user_profiles",
                        "hustle_outcomes"
                    ]
                },
                "filter": {
                    "type": "object"
                },
                "values": {
                    "type": "object"
                }
            }
        },
        "checkout.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "portal.Request": {
            "type": "object",
            "properties": {
                "returnUrl": {
                    "type": "string"
                }
            }
        },
        "portal.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "webhook.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "received": {
                    "type": "boolean"
                },
                "outcome": {
                    "type": "string"
                }
            }
        },
        "sendemail.Request": {
            "type": "object",
            "required": [
                "subject",
                "body"
            ],
            "properties": {
                "subject": {
                    "type": "string"
                },
                "body": {
                    "type": "string"
                }
            }
        },
        "sendemail.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "skipped": {
                    "type": "boolean"
                }
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "checks": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
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
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "HustleFinder API",
	Description:      "API генератора идей подработки: сессии, квота генераций, биллинг и уведомления.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
