// Package sitechat turns a website into a queryable knowledge base.
// It crawls a site breadth-first within depth and page budgets, splits
// the retrieved text into overlapping chunks, embeds and indexes those
// chunks for nearest-neighbor retrieval, and persists the index per
// session so later queries can pull back relevant passages.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency or concern
// (e.g., sqlite/, gemini/, crawl/).
package sitechat
