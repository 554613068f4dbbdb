// Package foamcase runs and manages OpenFOAM cases.
//
// The Service façade wires the CPU pool, process executor, foamDictionary
// tool and filesystem mirror once, and hands out cases and dictionary files
// that share them:
//
//	srv, _ := foamcase.New(foamcase.WithConfig(&foamcase.Config{CPUs: 8}))
//	pitz, _ := srv.Case("tutorials/incompressible/simpleFoam/pitzDaily")
//	clone, _ := pitz.Clone(ctx, "/tmp/pitzDaily")
//	out, _ := clone.Run(ctx)
//
// Every case run through the same Service competes for the same CPU pool,
// so any number of runs may be started concurrently.
package foamcase
