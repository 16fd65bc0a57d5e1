// Package main provides the entry point for the quotegrab CLI.
//
// quotegrab collects quotes from paginated quote sites. It follows
// each seed URL's next-page chain, extracts and validates quote
// records, filters duplicates, and exports the result as JSON, CSV,
// and a Markdown report.
//
// Usage:
//
//	quotegrab crawl http://quotes.toscrape.com
//	quotegrab crawl --output myquotes seed1 seed2
//
// See --help for all available options.
package main

// main is the entry point for quotegrab.
func main() {
	Execute()
}
