package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Air Quality Monitoring API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	readingSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":            map[string]string{"type": "integer"},
			"timestamp":     map[string]string{"type": "string"},
			"raw_value":     map[string]string{"type": "string"},
			"final_value":   map[string]string{"type": "string"},
			"unit":          map[string]string{"type": "string"},
			"status":        map[string]interface{}{"type": "string", "enum": []string{"valid", "pending", "invalid"}},
			"justification": map[string]string{"type": "string"},
			"operator":      map[string]string{"type": "string"},
			"alert_id":      map[string]interface{}{"type": "integer", "nullable": true},
		},
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Air Quality Monitoring API",
			"description": "Air-quality dashboard backend: synthetic sensor series, status-aware aggregation, human-in-the-loop reading validation, alert linkage and an audited validation trail",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Air Quality Monitoring Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/stations": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List stations",
					"description": "List monitored stations and the parameters measured at each",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Successful response"},
					},
				},
			},
			"/api/session/select": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Select the active series",
					"description": "Regenerates the reading series for a (station, parameter, period) triple; prior validation mutations are discarded",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":     "object",
									"required": []string{"station", "parameter"},
									"properties": map[string]interface{}{
										"station":   map[string]string{"type": "string"},
										"parameter": map[string]string{"type": "string"},
										"period":    map[string]interface{}{"type": "string", "enum": []string{"last_24h", "last_7d", "last_30d", "last_90d"}},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Series regenerated"},
					},
				},
			},
			"/api/session/granularity": map[string]interface{}{
				"put": map[string]interface{}{
					"summary":     "Change aggregation granularity",
					"description": "Re-derives the working set at the requested bucket width",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":     "object",
									"required": []string{"granularity"},
									"properties": map[string]interface{}{
										"granularity": map[string]interface{}{"type": "string", "enum": []string{"native", "15min", "1h", "1d"}},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Working set re-derived"},
						"400": map[string]interface{}{"description": "Unknown granularity"},
					},
				},
			},
			"/api/readings": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get readings page",
					"description": "Current page of the tab-filtered working set",
					"parameters": []map[string]interface{}{
						{
							"name":        "page",
							"in":          "query",
							"description": "Page number (default: current cursor)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data":        map[string]interface{}{"type": "array", "items": readingSchema},
											"total":       map[string]string{"type": "integer"},
											"page":        map[string]string{"type": "integer"},
											"limit":       map[string]string{"type": "integer"},
											"total_pages": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/readings/summary": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get status counters",
					"description": "Valid/invalid/pending/total counters and approval rate over the full working set",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Successful response"},
					},
				},
			},
			"/api/readings/{id}/invalidate": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Invalidate a reading",
					"description": "Marks a reading invalid with a mandatory justification and operator attribution; resolves the bound alert if any",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "integer"},
						},
					},
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":     "object",
									"required": []string{"justification", "actor"},
									"properties": map[string]interface{}{
										"justification": map[string]string{"type": "string"},
										"actor":         map[string]string{"type": "string"},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Reading invalidated"},
						"404": map[string]interface{}{"description": "Reading not found"},
						"422": map[string]interface{}{"description": "Missing justification"},
					},
				},
			},
			"/api/readings/{id}/revert": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Revert an invalidation",
					"description": "Restores a reading to its generated state; only accepted at native granularity",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "integer"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Reading restored"},
						"404": map[string]interface{}{"description": "Reading not found"},
						"409": map[string]interface{}{"description": "Revert rejected (aggregated row or missing original)"},
					},
				},
			},
			"/api/alerts": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List alerts",
					"description": "Scenario alert catalog with per-alert resolution flags",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Successful response"},
					},
				},
			},
			"/api/audit": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get the validation audit trail",
					"description": "Journaled invalidations and reverts with filtering and pagination",
					"parameters": []map[string]interface{}{
						{
							"name":     "station",
							"in":       "query",
							"required": false,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":     "parameter",
							"in":       "query",
							"required": false,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":     "action",
							"in":       "query",
							"required": false,
							"schema":   map[string]interface{}{"type": "string", "enum": []string{"invalidate", "revert"}},
						},
						{
							"name":     "page",
							"in":       "query",
							"required": false,
							"schema":   map[string]interface{}{"type": "integer", "default": 1},
						},
						{
							"name":     "limit",
							"in":       "query",
							"required": false,
							"schema":   map[string]interface{}{"type": "integer", "default": 100},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Successful response"},
					},
				},
			},
			"/api/imports": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Begin a file import",
					"description": "Starts a simulated import job reporting discrete progress ticks and a terminal record count",
					"responses": map[string]interface{}{
						"202": map[string]interface{}{"description": "Job accepted"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and audit journal are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
