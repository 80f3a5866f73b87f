// Package crawl drives spiders over their start URLs.
//
// A Runner fetches each start URL, hands the page to the spider and passes
// every resulting meeting to an emit callback. Extraction errors are logged
// and counted per fragment without stopping the page; fetch errors end the
// spider's crawl. Fetches are throttled but never retried.
package crawl
