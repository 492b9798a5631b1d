// Package warpgrid renders a scrolling grid of images through a
// pointer-reactive distortion shader on [Ebitengine].
//
// Each frame the content container is rasterized on the CPU into a
// supersampled RGBA buffer, uploaded into one GPU texture, and drawn as a
// single full-screen quad by a Kage program whose uniforms track the
// viewport and an eased pointer position. Moving the pointer also pans the
// grid with inertia.
//
// # Quick start
//
//	cfg := warpgrid.DefaultConfig()
//	cfg.Assets.Dir = "photos"
//	if err := warpgrid.Run(ctx, cfg, os.DirFS(".")); err != nil {
//		log.Fatal(err)
//	}
//
// Run loads the images, fetches and compiles both shader stages, and only
// then opens the window. Cancelling ctx ends the game.
//
// # Loops
//
// Two recurring tasks share one [RenderContext]:
//
//   - the pan task runs on the Update schedule (fixed TPS) and eases the
//     container's translation toward the pointer-derived target;
//   - the render task runs on the Draw schedule and performs capture,
//     upload, uniform update and draw in one pass.
//
// Ebitengine calls Update and Draw on a single goroutine, so the loops
// never observe each other mid-step. Only image decoding runs elsewhere,
// and its results are attached to nodes from Update.
//
// # Shaders
//
// A [ShaderProgram] is built from two Kage units. The vertex unit holds the
// uniforms and sampling helpers; the fragment unit holds func Fragment.
// Each unit is checked separately so a failure is reported as a
// [*CompileError] naming its stage. The merged program must declare the
// Resolution and Pointer vec2 uniforms and sample imageSrc0; Strength
// (float) and Sampler (vec2) are set when present.
//
// # Logging
//
// warpgrid logs through [go.uber.org/zap]. Nothing is logged until
// [SetLogger] is called.
//
// [Ebitengine]: https://ebitengine.org
package warpgrid
