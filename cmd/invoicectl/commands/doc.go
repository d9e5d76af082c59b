// Package commands defines the invoicectl CLI, an offline front end to the invoice pipeline.
//
// Commands
//
//   - render   Validate an order JSON file and write the invoice PDF
//   - quote    Print the price breakdown of an order as JSON
//
// # Implementation
//
// The root command loads configuration and builds the same dependency container as the
// HTTP server before any subcommand runs, so orders are validated, priced and drawn
// exactly as the /api/invoice endpoint would.
package commands
