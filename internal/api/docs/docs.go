// Package docs holds the OpenAPI description served at /swagger/doc.json.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}}
                }
            }
        },
        "/api/demo-profiles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "List the built-in demo profiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/analyze-profile": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Analyze a profile identifier, URL or free text",
                "parameters": [
                    {"description": "identifier", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.AnalyzeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pipeline.Analysis"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/analyze-pdf": {
            "post": {
                "consumes": ["application/pdf"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Analyze a profile PDF export",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pipeline.Analysis"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/generate-outreach": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["outreach"],
                "summary": "Generate outreach messages for one or more channels",
                "parameters": [
                    {"description": "generation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Search stored profiles by name, company or role",
                "parameters": [
                    {"type": "string", "description": "query", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/semantic": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Search stored profiles by meaning",
                "parameters": [
                    {"type": "string", "description": "query", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/export": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Download every stored profile as JSON",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/profiles/industry/{industry}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "List stored profiles in an industry",
                "parameters": [
                    {"type": "string", "description": "industry", "name": "industry", "in": "path", "required": true},
                    {"type": "integer", "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Get a stored profile",
                "parameters": [
                    {"type": "string", "description": "profile id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.Profile"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/{id}/similar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Stored profiles sharing a profile's industry or role",
                "parameters": [
                    {"type": "string", "description": "profile id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/profiles/{id}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["outreach"],
                "summary": "Messages generated for a profile, newest first",
                "parameters": [
                    {"type": "string", "description": "profile id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "max results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Store statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pipeline.Stats"}}
                }
            }
        }
    },
    "definitions": {
        "api.AnalyzeRequest": {
            "type": "object",
            "properties": {
                "identifier": {"type": "string"}
            }
        },
        "api.GenerateRequest": {
            "type": "object",
            "properties": {
                "identifier": {"type": "string"},
                "channels": {"type": "array", "items": {"type": "string", "enum": ["email", "linkedin_dm", "whatsapp", "sms", "instagram_dm"]}},
                "tone": {"type": "string", "enum": ["formal", "casual", "mixed"]},
                "additional_context": {"type": "string"}
            }
        },
        "api.GenerateResponse": {
            "type": "object",
            "properties": {
                "profile": {"$ref": "#/definitions/profile.Profile"},
                "insights": {"$ref": "#/definitions/insight.Insights"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/pipeline.GeneratedMessage"}},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/composer.Failure"}}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "backend": {"type": "string"},
                "model": {"type": "string"},
                "backend_reachable": {"type": "boolean"},
                "uptime_seconds": {"type": "integer"}
            }
        },
        "composer.Failure": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "reason": {"type": "string"},
                "timeout": {"type": "boolean"}
            }
        },
        "insight.Insights": {
            "type": "object",
            "properties": {
                "formality_score": {"type": "number"},
                "emoji_usage": {"type": "string", "enum": ["none", "occasional", "frequent"]},
                "pain_points": {"type": "array", "items": {"type": "string"}},
                "preferred_channels": {"type": "array", "items": {"type": "string"}}
            }
        },
        "pipeline.Analysis": {
            "type": "object",
            "properties": {
                "profile": {"$ref": "#/definitions/profile.Profile"},
                "insights": {"$ref": "#/definitions/insight.Insights"}
            }
        },
        "pipeline.GeneratedMessage": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "profile_id": {"type": "string"},
                "channel": {"type": "string"},
                "subject": {"type": "string"},
                "content": {"type": "string"},
                "tone": {"type": "string"},
                "cta": {"type": "string"},
                "estimated_reply_rate": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "pipeline.Stats": {
            "type": "object",
            "properties": {
                "total_profiles": {"type": "integer"},
                "total_messages": {"type": "integer"},
                "total_interactions": {"type": "integer"},
                "profiles_by_industry": {"type": "object", "additionalProperties": {"type": "integer"}},
                "messages_by_channel": {"type": "object", "additionalProperties": {"type": "integer"}},
                "avg_estimated_reply_rate": {"type": "number"},
                "indexed_profiles": {"type": "integer"},
                "jobs": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "profile.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "company": {"type": "string"},
                "industry": {"type": "string"},
                "seniority": {"type": "string", "enum": ["junior", "mid", "senior", "executive"]},
                "communication_style": {"type": "string", "enum": ["formal", "casual", "mixed"]},
                "skills": {"type": "array", "items": {"type": "string"}},
                "interests": {"type": "array", "items": {"type": "string"}},
                "education": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "bio": {"type": "string"},
                "about": {"type": "string"},
                "years_experience": {"type": "integer"},
                "profile_url": {"type": "string"},
                "source": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "coldreach API",
	Description:      "Profile analysis and multi-channel cold outreach generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
