// Command contractmatch fills a contract ledger with the contract numbers carried in
// PDF filenames, links each matched row to its PDF and bundles the result.
//
//	contractmatch run --ledger 合同台账.xlsx --out out/合同台账.xlsx ./pdfs
//	contractmatch parse Bank1-Loan-1001.pdf
package main
