// Package docs registers the OpenAPI description served under /swagger.
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
        "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/projects": {
            "get": {"summary": "List projects and the active one", "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a project and make it active", "responses": {"201": {"description": "Created"}, "400": {"description": "Empty or unsafe name"}, "409": {"description": "Duplicate project"}}}
        },
        "/projects/current": {"put": {"summary": "Select the active project", "responses": {"200": {"description": "OK"}}}},
        "/form": {"get": {"summary": "Form prefill values", "responses": {"200": {"description": "OK"}}}},
        "/records": {
            "get": {"summary": "List records of the active project", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Record"}}}, "422": {"description": "Corrupt partition"}}},
            "post": {"summary": "Save a record at the canonical coordinate", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Record"}}, "400": {"description": "Species missing"}}},
            "put": {"summary": "Overwrite the active project", "responses": {"204": {"description": "No Content"}, "400": {"description": "Invalid records"}}}
        },
        "/export": {"get": {"summary": "Download the active project as CSV", "produces": ["text/csv"], "responses": {"200": {"description": "OK"}}}},
        "/import/preview": {"post": {"summary": "Validate an uploaded table", "responses": {"200": {"description": "OK"}, "400": {"description": "Schema mismatch"}}}},
        "/import/merge": {"post": {"summary": "Append an uploaded table", "responses": {"200": {"description": "OK"}, "400": {"description": "Schema mismatch"}}}},
        "/import/replace": {"post": {"summary": "Replace the active project with an uploaded table", "responses": {"200": {"description": "OK"}, "400": {"description": "Schema mismatch"}}}},
        "/map": {"get": {"summary": "Render the map view", "responses": {"200": {"description": "OK"}}}},
        "/map/events": {"post": {"summary": "Apply one map or manual input event", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid event"}}}},
        "/overlay": {
            "get": {"summary": "Cached road overlay", "responses": {"200": {"description": "OK"}, "404": {"description": "No overlay"}}},
            "delete": {"summary": "Delete the cached overlay", "responses": {"204": {"description": "No Content"}}}
        },
        "/overlay/download": {"post": {"summary": "Download roads for a bounding box", "responses": {"200": {"description": "OK"}, "400": {"description": "Box too large"}, "502": {"description": "Geodata service failure"}}}},
        "/publish": {"post": {"summary": "Publish the active project to PostGIS", "responses": {"200": {"description": "OK"}}}},
        "/records/nearby": {"get": {"summary": "Published records near a point", "responses": {"200": {"description": "OK"}, "404": {"description": "Nothing nearby"}}}}
    },
    "definitions": {
        "models.Record": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-06-01"},
                "time": {"type": "string", "example": "21:30:00"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "species": {"type": "string"},
                "method": {"type": "string", "enum": ["Light trap", "Net sweeping", "Visual finding", "Bait trap"]},
                "collector": {"type": "string"},
                "notes": {"type": "string"}
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
	Title:            "Field Survey API",
	Description:      "Geotagged survey observations per project, map location state and road overlay cache.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
