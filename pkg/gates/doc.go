/*
Package gates provides the built-in gate catalog of GenSyn.

Every gate here is a plain domain.GateType descriptor. Processors are pure functions of
their input blocks, their parameters and the absolute frame index, so evaluating the same
graph at the same step always yields the same samples.

Signals are float32 samples. Pitch is carried as a normalized sample in [0, 1] mapped
linearly onto C0..B8 (see PitchToHz).
*/
package gates
