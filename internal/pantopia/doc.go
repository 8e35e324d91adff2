// Package pantopia provides an HTTP client for the Pantopia CRM REST API.
//
// # Overview
//
// This package defines the API client used by the console to read companies,
// contacts, projects, briefs, data sources, and extracted paragraphs, and to
// trigger data source processing. Persistence is owned entirely by the backend;
// the client only consumes its contract.
//
// # Architecture
//
//   - client.go: resty-based client, auth middleware, and error mapping
//   - types.go: Data structures mirroring the API schema, status enums
//   - errors.go: Sentinel and typed errors
//   - sample.go: Demo dataset used by the mock backend and sample resolvers
//
// # Client Usage
//
//	client, err := pantopia.NewClient("http://127.0.0.1:8000/api/v1",
//		pantopia.WithTokens(sessionStore),
//		pantopia.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	companies, err := client.ListCompanies(ctx)
//
// # API Endpoints
//
//   - GET /companies/, GET /companies/{id}/
//   - GET /companies/{id}/datasources/
//   - GET /datasources/{id}/, GET /datasources/{id}/paragraphs/
//   - POST /datasources/{id}/process/, GET /datasources/{id}/status/
//   - GET /contacts/, GET /contacts/{id}/
//   - GET /projects/, GET /projects/{id}/
//   - GET /briefs/, GET /briefs/{id}/, PATCH /briefs/{id}/
//
// List endpoints accept either a bare JSON array or a paginated
// {"count": n, "results": [...]} envelope.
//
// # Authentication
//
// Every request carries Authorization: Bearer <token> read from the TokenStore,
// plus an X-Request-ID. A 401 clears the stored token, fires the OnUnauthorized
// hook with the external login URL, and returns ErrUnauthorized. There is no
// refresh flow; the operator signs in again through the login page.
//
// # Error Handling
//
//   - Network errors: "execute request: ..."
//   - 401: wraps ErrUnauthorized
//   - 404: wraps ErrNotFound
//   - Other 4xx/5xx: *APIError ("api /companies/ returned status 500")
//   - Malformed JSON: "decode response: ..."
package pantopia
