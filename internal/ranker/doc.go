// Package ranker turns the analysis matrix into rankings.
//
// Jobs rank by the signed sum of their skill hit counts: wanted skills
// count positive, unwanted ones negative. Skills rank by how
// concentrated their mentions are among the top-ranked postings, with
// higher-ranked postings weighted more heavily. Both rankings are pure
// functions of their inputs; given the same matrix and skill set they
// always produce the same order.
package ranker
