// Package render abstracts the engine that loads a page and runs named
// extraction routines against elements located by CSS selector. Chrome
// drives a headless browser through chromedp; Static fetches the HTML over
// HTTP and evaluates the same routines with goquery.
package render
