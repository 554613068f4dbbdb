// Package entry defines the typed values stored in OpenFOAM dictionaries and
// the codec translating them to and from the text accepted by foamDictionary.
//
//	entry.Parse("( 1 2 ( 3 4 ) 5 )") // List{Int(1), Int(2), List{Int(3), Int(4)}, Int(5)}
//	entry.Serialize(entry.Bool(true)) // "yes"
package entry
