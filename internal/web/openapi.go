package web

// swaggerJSON is the OpenAPI 3.0 document for the control API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": {
    "title": "Capacitor Charger API (Project Scrooge)",
    "version": "1.0.1",
    "description": "API to control the charge duration of an external capacitor connected to a GPIO output pin. Part of Project Scrooge: a zero-leakage switching test bench."
  },
  "servers": [{"url": "/", "description": "Local bench server"}],
  "paths": {
    "/charge": {
      "get": {
        "tags": ["Control"],
        "summary": "Start Capacitor Charging",
        "parameters": [{
          "name": "time",
          "in": "query",
          "required": true,
          "schema": {"type": "integer", "format": "int32", "minimum": 100, "maximum": 60000},
          "description": "Duration to hold the charge pin HIGH, in milliseconds (100ms to 60000ms)."
        }],
        "responses": {
          "200": {"description": "Charging cycle initiated successfully."},
          "400": {"description": "Invalid or missing 'time' parameter."},
          "409": {"description": "A charging cycle is already in progress."}
        }
      }
    },
    "/stop": {
      "post": {
        "tags": ["Control"],
        "summary": "Emergency Stop",
        "description": "Immediately stops any active charging cycle by setting the charge pin LOW.",
        "responses": {
          "200": {"description": "Charge stopped or confirmed idle."}
        }
      }
    },
    "/state": {
      "get": {
        "tags": ["Status"],
        "summary": "Get Current GPIO Charge State",
        "description": "Reports if the charge pin is currently HIGH (charging) or LOW (idle), and the remaining time if charging.",
        "responses": {
          "200": {
            "description": "Current state information.",
            "content": {
              "application/json": {
                "example": {"status": "charging", "gpio_level": "HIGH", "duration_ms": 5000, "time_remaining_ms": 1500}
              }
            }
          }
        }
      }
    },
    "/health": {
      "get": {
        "tags": ["System"],
        "summary": "Health Check",
        "description": "Simple check to ensure the server is running.",
        "responses": {"200": {"description": "System operational."}}
      }
    },
    "/info": {
      "get": {
        "tags": ["System"],
        "summary": "Get Project Information",
        "description": "Provides details about the project context and configuration.",
        "responses": {"200": {"description": "Project details."}}
      }
    },
    "/status.json": {
      "get": {
        "tags": ["System"],
        "summary": "Get Full Daemon Status",
        "description": "Full status snapshot: charge state, event counts, MQTT connectivity, network and configuration.",
        "responses": {"200": {"description": "Status snapshot."}}
      }
    }
  }
}`

// swaggerHTML serves Swagger UI, loading assets from a CDN.
const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Capacitor Charger API</title>
  <link rel="stylesheet" type="text/css" href="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/3.52.0/swagger-ui.css">
  <style>
    body { font-family: sans-serif; background-color: #f0f0f0; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdnjs.cloudflare.com/ajax/libs/swagger-ui/3.52.0/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: window.location.origin + "/swagger.json",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [
          SwaggerUIBundle.presets.apis,
          SwaggerUIBundle.SwaggerUIStandalonePreset
        ],
        layout: "BaseLayout"
      });
    };
  </script>
</body>
</html>
`
