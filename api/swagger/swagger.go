package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Internship API", "description": "Internship programs, teams, work programs, weekly reports, attendance and final reports", "version": "1.0.0"},
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "System"},
        {"name": "Auth"},
        {"name": "Admin"},
        {"name": "Programs"},
        {"name": "Registrations"},
        {"name": "Teams"},
        {"name": "Work Programs"},
        {"name": "Tasks"},
        {"name": "Weekly Reports"},
        {"name": "Attendance"},
        {"name": "Final Report"},
        {"name": "Files"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["System"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["System"], "summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unavailable"}}}
        },
        "/metrics": {
            "get": {"tags": ["System"], "summary": "Prometheus metrics", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Login with email and password", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/me": {
            "get": {"tags": ["Auth"], "summary": "Current caller profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/admin/metrics": {
            "get": {"tags": ["Admin"], "summary": "Process metrics snapshot", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/programs": {
            "post": {"tags": ["Programs"], "summary": "Create program", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProgramRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Programs"], "summary": "List programs", "parameters": [{"name": "status", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/programs/{id}": {
            "get": {"tags": ["Programs"], "summary": "Get program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/programs/{id}/archive": {
            "post": {"tags": ["Programs"], "summary": "Archive program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations": {
            "post": {"tags": ["Registrations"], "summary": "Submit registration", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRegistrationRequest"}}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Registrations"], "summary": "List registrations", "parameters": [{"name": "programId", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "string"}, {"name": "limit", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}": {
            "get": {"tags": ["Registrations"], "summary": "Get registration", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/approve": {
            "post": {"tags": ["Registrations"], "summary": "Approve registration", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRegistrationRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/registrations/{id}/reject": {
            "post": {"tags": ["Registrations"], "summary": "Reject registration", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewRegistrationRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams": {
            "post": {"tags": ["Teams"], "summary": "Create team", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeamRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Teams"], "summary": "List teams visible to the caller", "parameters": [{"name": "programId", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}": {
            "get": {"tags": ["Teams"], "summary": "Get team with members", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/activity": {
            "get": {"tags": ["Teams"], "summary": "Recent team activity", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "limit", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/members": {
            "post": {"tags": ["Teams"], "summary": "Add team member", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeamMemberRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/members/{userId}": {
            "delete": {"tags": ["Teams"], "summary": "Remove team member", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "userId", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/supervisor": {
            "put": {"tags": ["Teams"], "summary": "Assign supervisor", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSupervisorRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/progress": {
            "put": {"tags": ["Teams"], "summary": "Set team progress", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTeamProgressRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/work-programs": {
            "post": {"tags": ["Work Programs"], "summary": "Create work program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkProgramRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Work Programs"], "summary": "List work programs", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/work-programs/{id}": {
            "get": {"tags": ["Work Programs"], "summary": "Get work program with member progress", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/tasks": {
            "post": {"tags": ["Tasks"], "summary": "Create task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Tasks"], "summary": "List tasks", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "workProgramId", "in": "query", "type": "string"}, {"name": "assigneeId", "in": "query", "type": "string"}, {"name": "completed", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "patch": {"tags": ["Tasks"], "summary": "Update task (JSON or multipart with proof files)", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Tasks"], "summary": "Delete task", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/tasks/{id}/updates": {
            "post": {"tags": ["Tasks"], "summary": "Add task progress note", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddTaskUpdateRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/weekly-reports": {
            "post": {"tags": ["Weekly Reports"], "summary": "Submit weekly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WeeklyReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Weekly Reports"], "summary": "List weekly reports", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "week", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/weekly-reports/draft": {
            "post": {"tags": ["Weekly Reports"], "summary": "Save weekly report draft", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WeeklyReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/weekly-reports/{id}": {
            "get": {"tags": ["Weekly Reports"], "summary": "Get weekly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/weekly-reports/{id}/approve": {
            "post": {"tags": ["Weekly Reports"], "summary": "Approve weekly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewWeeklyReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/weekly-reports/{id}/reject": {
            "post": {"tags": ["Weekly Reports"], "summary": "Request revision", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewWeeklyReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/weekly-reports/{id}/comments": {
            "post": {"tags": ["Weekly Reports"], "summary": "Comment on weekly report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCommentRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/attendance": {
            "post": {"tags": ["Attendance"], "summary": "Daily check-in (JSON or multipart with photo)", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/attendance/weekly": {
            "get": {"tags": ["Attendance"], "summary": "Weekly attendance summary", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "week", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/attendance/weekly/export": {
            "get": {"tags": ["Attendance"], "summary": "Export weekly attendance as csv or pdf", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "week", "in": "query", "type": "string"}, {"name": "format", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/attendance/approvals": {
            "put": {"tags": ["Attendance"], "summary": "Review a member's week", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveWeeklyAttendanceRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Attendance"], "summary": "List weekly approvals", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "week", "in": "query", "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/documents": {
            "post": {"tags": ["Final Report"], "summary": "Upload team document (multipart)", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "get": {"tags": ["Final Report"], "summary": "List team documents", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/final-report/submit": {
            "post": {"tags": ["Final Report"], "summary": "Submit final report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/teams/{id}/final-report/review": {
            "post": {"tags": ["Final Report"], "summary": "Review final report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewFinalReportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/files/{token}": {
            "get": {"tags": ["Files"], "summary": "Download a file through a signed link", "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "4XX": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}, "required": ["email", "password"]},
        "CreateProgramRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "startDate": {"type": "string"}, "endDate": {"type": "string"}}, "required": ["title", "startDate", "endDate"]},
        "SubmitRegistrationRequest": {"type": "object", "properties": {"programId": {"type": "string"}, "fullName": {"type": "string"}, "studentId": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}}, "required": ["programId", "fullName", "studentId", "email"]},
        "ReviewRegistrationRequest": {"type": "object", "properties": {"notes": {"type": "string"}}},
        "CreateTeamRequest": {"type": "object", "properties": {"programId": {"type": "string"}, "name": {"type": "string"}, "leaderId": {"type": "string"}, "supervisorId": {"type": "string"}, "memberIds": {"type": "array", "items": {"type": "string"}}}, "required": ["programId", "name", "leaderId"]},
        "TeamMemberRequest": {"type": "object", "properties": {"userId": {"type": "string"}}, "required": ["userId"]},
        "AssignSupervisorRequest": {"type": "object", "properties": {"supervisorId": {"type": "string"}}, "required": ["supervisorId"]},
        "UpdateTeamProgressRequest": {"type": "object", "properties": {"progress": {"type": "integer"}}, "required": ["progress"]},
        "CreateWorkProgramRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "memberIds": {"type": "array", "items": {"type": "string"}}}, "required": ["title"]},
        "CreateTaskRequest": {"type": "object", "properties": {"workProgramId": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "startDate": {"type": "string"}, "dueDate": {"type": "string"}, "assigneeIds": {"type": "array", "items": {"type": "string"}}}, "required": ["title"]},
        "UpdateTaskRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "startDate": {"type": "string"}, "dueDate": {"type": "string"}, "assigneeIds": {"type": "array", "items": {"type": "string"}}, "completed": {"type": "boolean"}}},
        "AddTaskUpdateRequest": {"type": "object", "properties": {"note": {"type": "string"}, "progress": {"type": "integer"}}, "required": ["note"]},
        "WeeklyReportRequest": {"type": "object", "properties": {"week": {"type": "string"}, "description": {"type": "string"}, "progressPercentage": {"type": "integer"}, "taskIds": {"type": "array", "items": {"type": "string"}}}, "required": ["week", "progressPercentage"]},
        "ReviewWeeklyReportRequest": {"type": "object", "properties": {"comment": {"type": "string"}}},
        "AddCommentRequest": {"type": "object", "properties": {"body": {"type": "string"}}, "required": ["body"]},
        "CheckInRequest": {"type": "object", "properties": {"date": {"type": "string"}, "status": {"type": "string"}, "excuse": {"type": "string"}, "latitude": {"type": "number"}, "longitude": {"type": "number"}}, "required": ["status"]},
        "ApproveWeeklyAttendanceRequest": {"type": "object", "properties": {"studentId": {"type": "string"}, "week": {"type": "string"}, "status": {"type": "string"}, "notes": {"type": "string"}}, "required": ["studentId", "week", "status"]},
        "ReviewFinalReportRequest": {"type": "object", "properties": {"decision": {"type": "string"}, "notes": {"type": "string"}}, "required": ["decision"]},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
