// Package mbt generates and executes integration test cases for systems
// whose behavior is modeled as a deterministic finite automaton.
//
// Given an explicit model, the coverage strategies (node, edge and path
// coverage) synthesize walks over the state graph and the case assembler
// turns them into GIVEN-WHEN-THEN test case chains. Given no model, the
// Explorer reverse-engineers one by driving a live system under test
// through every known state with every known event until no new state
// appears.
package mbt
