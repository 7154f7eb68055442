/*
Package hwbench provides the necessary tools to build pin level test benches
for simulated digital designs, using Go both as a hardware description
language and as the test scripting language.

This includes a naive cycle based simulator and an API to compose basic
components (logic gates, bus drivers, protocol monitors) into a circuit wired
around a design under test.

The API is designed to mimic a real hardware description language. As a
result, it relies heavily on closures and can feel a bit awkward when
implementing custom components.

The sub-packages build the actual test bench layers on top of this package:
bench drives a circuit in terms of simulated time, spi provides a serial
configuration link, pwm generates and measures waveforms, wave records signal
activity, and hwtest provides test helpers.

*/
package hwbench
