// Package verify holds the two verification flows run against the
// application and the Runner that executes them.
//
// A flow is a fixed, linear list of browser steps with no branching or
// retries: the first failing step aborts the flow. The literal URLs,
// placeholders and button labels used by the flows are the compatibility
// contract with the application and must not be changed casually.
//
// Flows:
//   - Feature: signup, login, open the todo page, add one item, screenshot.
//   - Translations: visit each configured page and screenshot it.
package verify
