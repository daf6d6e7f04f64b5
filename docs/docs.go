// Package docs holds the Swagger description of the course API served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/courses": {
            "get": {
                "description": "Get all generated courses, optionally filtered by target language",
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "List courses",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Target language label, e.g. Tiếng Anh",
                        "name": "language",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/models.CourseListItem"}
                        }
                    },
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "description": "Get a course with its units, skills and lessons",
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Get course tree",
                "parameters": [
                    {"type": "integer", "description": "Course ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CourseTree"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/lessons/{id}/activities": {
            "get": {
                "description": "Get the activities of a lesson in order",
                "produces": ["application/json"],
                "tags": ["lessons"],
                "summary": "Get lesson activities",
                "parameters": [
                    {"type": "integer", "description": "Lesson ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/models.ActivityResponse"}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.BilingualText": {
            "type": "object",
            "properties": {
                "vi": {"type": "string"},
                "en": {"type": "string"},
                "zh": {"type": "string"},
                "pinyin": {"type": "string"}
            }
        },
        "models.DisplayParts": {
            "type": "object",
            "properties": {
                "main": {"type": "string"},
                "sub": {"type": "string"}
            }
        },
        "models.CourseListItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"$ref": "#/definitions/models.BilingualText"},
                "display": {"$ref": "#/definitions/models.DisplayParts"},
                "target_language": {"type": "string"},
                "description": {"$ref": "#/definitions/models.BilingualText"}
            }
        },
        "models.CourseTree": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"$ref": "#/definitions/models.BilingualText"},
                "display": {"$ref": "#/definitions/models.DisplayParts"},
                "target_language": {"type": "string"},
                "description": {"$ref": "#/definitions/models.BilingualText"},
                "units": {"type": "array", "items": {"$ref": "#/definitions/models.UnitNode"}}
            }
        },
        "models.UnitNode": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "course_id": {"type": "integer"},
                "title": {"$ref": "#/definitions/models.BilingualText"},
                "order": {"type": "integer"},
                "display": {"$ref": "#/definitions/models.DisplayParts"},
                "skills": {"type": "array", "items": {"$ref": "#/definitions/models.SkillNode"}}
            }
        },
        "models.SkillNode": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "unit_id": {"type": "integer"},
                "title": {"$ref": "#/definitions/models.BilingualText"},
                "icon_name": {"type": "string"},
                "order": {"type": "integer"},
                "display": {"$ref": "#/definitions/models.DisplayParts"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/models.LessonNode"}}
            }
        },
        "models.LessonNode": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "skill_id": {"type": "integer"},
                "title": {"$ref": "#/definitions/models.BilingualText"},
                "order": {"type": "integer"},
                "is_test": {"type": "boolean"},
                "display": {"$ref": "#/definitions/models.DisplayParts"}
            }
        },
        "models.ActivityResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "order": {"type": "integer"},
                "activity_type": {
                    "type": "string",
                    "enum": ["LESSON_CONTENT", "QUIZ_MCQ", "FILL_IN_BLANK", "SENTENCE_SCRAMBLE", "SENTENCE_TRANSLATION", "PRONUNCIATION", "CONVERSATION", "QUIZ"]
                },
                "content": {"type": "object"},
                "xp_reward": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LingoPath Course API",
	Description:      "Read-only API over generated language courses",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
