/*
Package docpath addresses leaves of a configuration document.

A path is a sequence of segments, each a mapping key with an optional list
index, written as `a.b[0].c`. Keys that are not plain identifiers (derived
names such as `qubit.mixer` contain dots) are written quoted in brackets:

	mixers["qubit.mixer"][0].intermediate_frequency

Parse and Path.String are inverses of each other.
*/
package docpath
