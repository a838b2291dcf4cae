// Package store persists task records in a single JSON file.
//
// The file holds a JSON array of task objects:
//
//	[
//	    {
//	        "id": 1,
//	        "title": "Buy milk",
//	        "description": "2%",
//	        "timestamp": "18/10/26 09:15:02"
//	    }
//	]
//
// # Reads
//
// The store has two read paths:
//
//   - List is lenient. A missing file or content that does not decode as a
//     list of tasks yields an empty list, so a display never fails on startup.
//   - Add and Remove read strictly before rewriting. Content that does not
//     decode, fails the embedded JSON Schema, or carries duplicate ids is
//     reported as a *MalformedStoreError and the file is left untouched.
//
// A missing file is an empty store on both paths.
//
// # Writes
//
// Every mutation rewrites the whole file: the new content goes to a temp
// file in the same directory, which is then renamed over the store file.
// Output uses 4-space indentation, unescaped non-ASCII text, and a trailing
// newline so the file stays diffable and easy to edit by hand.
//
// # Identifiers
//
// A new task gets max(existing ids)+1, or 1 for an empty store.
package store
