package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "description": "HTTP front end for the portlens TCP connect scanner.",
    "title": "portlens API",
    "license": {
      "name": "MIT",
      "url": "https://opensource.org/licenses/MIT"
    },
    "version": "1.0"
  },
  "host": "localhost:8080",
  "basePath": "/api/v1",
  "schemes": [
    "http"
  ],
  "paths": {
    "/scans": {
      "post": {
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "summary": "Start a scan",
        "description": "Validates the target and port range and starts a TCP connect scan in the background. Only one scan runs at a time; a start while another scan is resolving or scanning is rejected with 409.",
        "operationId": "startScan",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "parameters": [
          {
            "description": "Target and inclusive port range",
            "name": "scanRequest",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/StartScanRequest"
            }
          }
        ],
        "responses": {
          "202": {
            "description": "Scan accepted. Poll GET /scans/current/events for results.",
            "schema": {
              "$ref": "#/definitions/ScanStatusResponse"
            }
          },
          "400": {
            "description": "Malformed JSON or invalid target/range.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "401": {
            "description": "Missing or incorrect API key.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "409": {
            "description": "A scan is already in progress.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "429": {
            "description": "Rate limit exceeded.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/current": {
      "get": {
        "produces": [
          "application/json"
        ],
        "summary": "Get the current scan",
        "description": "Returns a snapshot of the most recent scan: lifecycle state, resolved address, open ports found so far and the progress readout.",
        "operationId": "getCurrentScan",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/ScanStatusResponse"
            }
          },
          "401": {
            "description": "Missing or incorrect API key.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "404": {
            "description": "No scan has been started.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      },
      "delete": {
        "produces": [
          "application/json"
        ],
        "summary": "Cancel the current scan",
        "description": "Stops scheduling further ports. Probes already connecting finish on their own timeout, after which the terminal event is emitted.",
        "operationId": "cancelScan",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "responses": {
          "202": {
            "description": "Accepted",
            "schema": {
              "$ref": "#/definitions/ScanStatusResponse"
            }
          },
          "401": {
            "description": "Missing or incorrect API key.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "409": {
            "description": "No scan is in progress.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/current/events": {
      "get": {
        "produces": [
          "application/json"
        ],
        "summary": "Poll scan events",
        "description": "Returns every event emitted at or after offset, in emission order. Pass the returned next value as the following offset.",
        "operationId": "getScanEvents",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "parameters": [
          {
            "type": "integer",
            "default": 0,
            "description": "Number of events already consumed",
            "name": "offset",
            "in": "query"
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/EventsResponse"
            }
          },
          "400": {
            "description": "Invalid offset.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "401": {
            "description": "Missing or incorrect API key.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "404": {
            "description": "No scan has been started.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/current/summary": {
      "post": {
        "produces": [
          "application/json"
        ],
        "summary": "Save a summary of the current scan",
        "description": "Writes the header and the full event log to portscan-<target>.txt. With an empty log nothing is written and a warning is returned.",
        "operationId": "saveSummary",
        "tags": [
          "Scans"
        ],
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "schema": {
              "$ref": "#/definitions/SummaryResponse"
            }
          },
          "401": {
            "description": "Missing or incorrect API key.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          },
          "500": {
            "description": "The summary file could not be written.",
            "schema": {
              "$ref": "#/definitions/ErrorResponse"
            }
          }
        }
      }
    }
  },
  "securityDefinitions": {
    "ApiKeyAuth": {
      "type": "apiKey",
      "name": "Authorization",
      "in": "header",
      "description": "Bearer <API_KEY>"
    }
  },
  "definitions": {
    "StartScanRequest": {
      "type": "object",
      "properties": {
        "host": {
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "start_port": {
          "type": "integer",
          "example": 1
        },
        "end_port": {
          "type": "integer",
          "example": 1024
        }
      }
    },
    "PortRange": {
      "type": "object",
      "properties": {
        "start": {
          "type": "integer",
          "example": 1
        },
        "end": {
          "type": "integer",
          "example": 1024
        }
      }
    },
    "Target": {
      "type": "object",
      "properties": {
        "host": {
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "resolved_address": {
          "type": "string",
          "example": "45.33.32.156"
        }
      }
    },
    "RunSnapshot": {
      "type": "object",
      "properties": {
        "id": {
          "type": "string",
          "format": "uuid"
        },
        "target": {
          "$ref": "#/definitions/Target"
        },
        "range": {
          "$ref": "#/definitions/PortRange"
        },
        "state": {
          "type": "string",
          "enum": [
            "idle",
            "resolving",
            "scanning",
            "finished",
            "cancelled"
          ]
        },
        "open_ports": {
          "type": "array",
          "items": {
            "type": "integer"
          }
        },
        "total_probed": {
          "type": "integer"
        },
        "started_at": {
          "type": "string",
          "format": "date-time"
        },
        "finished_at": {
          "type": "string",
          "format": "date-time"
        }
      }
    },
    "Progress": {
      "type": "object",
      "properties": {
        "open": {
          "type": "integer"
        },
        "total": {
          "type": "integer"
        },
        "target": {
          "type": "string"
        }
      }
    },
    "ScanStatusResponse": {
      "type": "object",
      "properties": {
        "run": {
          "$ref": "#/definitions/RunSnapshot"
        },
        "progress": {
          "$ref": "#/definitions/Progress"
        },
        "progress_line": {
          "type": "string",
          "example": "[ 1 / 1024 ] ~ 45.33.32.156"
        },
        "events": {
          "type": "integer"
        }
      }
    },
    "ResultEvent": {
      "type": "object",
      "properties": {
        "kind": {
          "type": "string",
          "enum": [
            "info",
            "open",
            "error"
          ]
        },
        "port": {
          "type": "integer"
        },
        "message": {
          "type": "string",
          "example": " Port 22 \t[open]"
        }
      }
    },
    "EventsResponse": {
      "type": "object",
      "properties": {
        "events": {
          "type": "array",
          "items": {
            "$ref": "#/definitions/ResultEvent"
          }
        },
        "next": {
          "type": "integer"
        },
        "finished": {
          "type": "boolean"
        }
      }
    },
    "SummaryResponse": {
      "type": "object",
      "properties": {
        "path": {
          "type": "string"
        },
        "warning": {
          "type": "string"
        }
      }
    },
    "ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {
          "type": "string",
          "example": "start port must be <= end port"
        },
        "field": {
          "type": "string",
          "example": "ports"
        }
      }
    }
  }
}
`

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

type swaggerDoc struct{}

func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}
