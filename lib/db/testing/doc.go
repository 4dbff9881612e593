// Package testing provides a standardized conformance suite for relational
// db.Processor implementations.
//
//   - RunSQLProcessorTests: validates the processor lifecycle, parameter
//     binding, synthetic update results and the cursor's zero-value
//     semantics against a fresh backing store per subtest.
//
// Engine packages invoke the suite from their own _test files with a
// factory producing a processor bound to a disposable database.
package testing
