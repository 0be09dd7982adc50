// Package docs registers the API's swagger spec.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "description": "Registration, login and token refresh",
            "name": "Auth"
        },
        {
            "description": "Profile and account lifecycle operations",
            "name": "Users"
        },
        {
            "description": "Project and membership management",
            "name": "Projects"
        },
        {
            "description": "Board and column management",
            "name": "Boards"
        },
        {
            "description": "Task, ordering and comment operations",
            "name": "Tasks"
        },
        {
            "description": "Notification inbox",
            "name": "Notifications"
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Kanban API",
	Description:      "Project and task collaboration API: projects, memberships, boards, tasks, comments, notifications",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
