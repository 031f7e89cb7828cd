// Package analysis derives insights and a quality score from generated code.
//
// Both analyzers are lexical: they look for keyword markers in the text and
// never parse it. They sit behind the InsightExtractor and QualityAnalyzer
// interfaces so a real static-analysis pass can replace them without touching
// the workflow.
package analysis
