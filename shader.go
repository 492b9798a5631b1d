package warpgrid

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is a draw target for the full-screen pass. *ebiten.Image
// satisfies it; tests substitute a recorder.
type Surface interface {
	Bounds() image.Rectangle
	DrawTrianglesShader(vertices []ebiten.Vertex, indices []uint16, shader *ebiten.Shader, options *ebiten.DrawTrianglesShaderOptions)
}

// ProgramState is the lifecycle state of a ShaderProgram.
type ProgramState uint8

const (
	ProgramUncompiled ProgramState = iota
	ProgramCompiling
	ProgramLinked
	ProgramActive
	ProgramFailed
)

func (s ProgramState) String() string {
	switch s {
	case ProgramUncompiled:
		return "uncompiled"
	case ProgramCompiling:
		return "compiling"
	case ProgramLinked:
		return "linked"
	case ProgramActive:
		return "active"
	case ProgramFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// textureType is the Type reported for texture-unit uniforms.
const textureType = "image"

// Uniform is a resolved uniform handle. Value uniforms carry their Kage type
// ("float", "vec2", ...); texture units have Type "image" and a Unit index.
type Uniform struct {
	Name string
	Type string
	Unit int
}

// IsTexture reports whether the handle names a texture unit.
func (u Uniform) IsTexture() bool {
	return u.Type == textureType
}

// ShaderProgram is the GPU program for the distortion pass, built from two
// Kage units. Ebitengine supplies the vertex program itself, so the vertex
// unit carries the declarations shared with the fragment stage (uniforms and
// sampling helpers) and the fragment unit carries the Fragment entry point.
// Each unit is compiled on its own so diagnostics name the failing stage;
// linking merges them into a single Kage program.
//
// A program is compiled once. There is no recompilation path.
type ShaderProgram struct {
	state  ProgramState
	err    error
	shader *ebiten.Shader
	source []byte

	uniforms map[string]Uniform
	values   map[string]any
	vec2s    map[string][]float32 // persistent slices stored in values
	images   [4]*ebiten.Image
	op       ebiten.DrawTrianglesShaderOptions

	link func(src []byte) (*ebiten.Shader, error)
}

// NewShaderProgram returns an uncompiled program linked by Ebitengine's Kage
// compiler.
func NewShaderProgram() *ShaderProgram {
	return newShaderProgram(ebiten.NewShader)
}

func newShaderProgram(link func([]byte) (*ebiten.Shader, error)) *ShaderProgram {
	return &ShaderProgram{
		uniforms: make(map[string]Uniform),
		values:   make(map[string]any),
		vec2s:    make(map[string][]float32),
		link:     link,
	}
}

// State returns the current lifecycle state.
func (p *ShaderProgram) State() ProgramState {
	return p.state
}

// Err returns the error that moved the program to ProgramFailed, if any.
func (p *ShaderProgram) Err() error {
	return p.err
}

// Source returns the merged Kage source of a linked program.
func (p *ShaderProgram) Source() []byte {
	return p.source
}

// Compile compiles both stages and links them. On a stage failure the
// program enters ProgramFailed with a *CompileError for that stage and
// linking is not attempted; a failed link yields a *LinkError.
func (p *ShaderProgram) Compile(vertex, fragment []byte) error {
	if p.state != ProgramUncompiled {
		return ErrProgramCompiled
	}
	p.state = ProgramCompiling

	vs, err := compileUnit(StageVertex, vertex)
	if err != nil {
		return p.fail(err)
	}
	fs, err := compileUnit(StageFragment, fragment)
	if err != nil {
		return p.fail(err)
	}

	src, err := linkUnits(vs, fs)
	if err != nil {
		return p.fail(err)
	}
	shader, err := p.link(src)
	if err != nil {
		return p.fail(&LinkError{Log: err.Error()})
	}

	p.shader = shader
	p.source = src
	for _, u := range append(vs.uniforms, fs.uniforms...) {
		p.uniforms[u.Name] = u
	}
	p.state = ProgramLinked
	Logger().Debug("shader program linked")
	return nil
}

func (p *ShaderProgram) fail(err error) error {
	p.state = ProgramFailed
	p.err = err
	return err
}

// Use makes a linked program the active one. Drawing requires ProgramActive.
func (p *ShaderProgram) Use() error {
	switch p.state {
	case ProgramActive:
		return nil
	case ProgramLinked:
		p.state = ProgramActive
		return nil
	default:
		return fmt.Errorf("use program in state %s: %w", p.state, ErrProgramNotLinked)
	}
}

// Uniform resolves a uniform handle by name. Callers resolve handles once
// and keep them.
func (p *ShaderProgram) Uniform(name string) (Uniform, error) {
	if p.state != ProgramLinked && p.state != ProgramActive {
		return Uniform{}, fmt.Errorf("uniform %q: %w", name, ErrProgramNotLinked)
	}
	u, ok := p.uniforms[name]
	if !ok {
		return Uniform{}, fmt.Errorf("uniform %q: %w", name, ErrUniformNotFound)
	}
	return u, nil
}

// Uniforms returns the names of every uniform the program declares, sorted.
func (p *ShaderProgram) Uniforms() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetFloat sets a float uniform. Panics if u is not a float.
func (p *ShaderProgram) SetFloat(u Uniform, v float64) {
	mustType(u, "float")
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	p.values[u.Name] = float32(v)
}

// SetVec2 sets a vec2 uniform. Panics if u is not a vec2.
func (p *ShaderProgram) SetVec2(u Uniform, x, y float64) {
	mustType(u, "vec2")
	s, ok := p.vec2s[u.Name]
	if !ok {
		s = make([]float32, 2)
		p.vec2s[u.Name] = s
		p.values[u.Name] = s
	}
	s[0] = float32(x)
	s[1] = float32(y)
}

// BindTexture binds img to a texture-unit uniform. Panics if u is not a
// texture unit.
func (p *ShaderProgram) BindTexture(u Uniform, img *ebiten.Image) {
	mustType(u, textureType)
	p.images[u.Unit] = img
}

// Value returns the value last set for a uniform, for inspection.
func (p *ShaderProgram) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Draw issues one DrawTrianglesShader call with the current uniforms and
// bound textures. It refuses to draw unless the program is active.
func (p *ShaderProgram) Draw(dst Surface, vertices []ebiten.Vertex, indices []uint16) error {
	if p.state != ProgramActive {
		return ErrProgramNotActive
	}
	p.op.Uniforms = p.values
	p.op.Images = p.images
	p.op.Blend = ebiten.BlendSourceOver
	dst.DrawTrianglesShader(vertices, indices, p.shader, &p.op)
	return nil
}

func mustType(u Uniform, want string) {
	if u.Type != want {
		panic(fmt.Sprintf("warpgrid: uniform %q is %s, not %s", u.Name, u.Type, want))
	}
}

// --- Kage units ---

// kageUnit is one parsed shader stage.
type kageUnit struct {
	stage    Stage
	unit     string // value of the //kage:unit directive, if any
	body     []byte // source following the package clause
	decls    []string
	uniforms []Uniform
}

const kageUnitDirective = "//kage:unit "

// compileUnit parses one stage and reflects its declarations. Kage is Go
// syntax, so go/parser reports the same syntax errors Ebitengine would.
func compileUnit(stage Stage, src []byte) (*kageUnit, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, &CompileError{Stage: stage, Log: "empty source"}
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, stage.String()+".kage", src, parser.ParseComments|parser.AllErrors)
	if err != nil {
		return nil, &CompileError{Stage: stage, Log: err.Error()}
	}
	if f.Name.Name != "main" {
		return nil, &CompileError{Stage: stage, Log: fmt.Sprintf("package %s: Kage sources must be package main", f.Name.Name)}
	}
	if len(f.Imports) > 0 {
		return nil, &CompileError{Stage: stage, Log: "imports are not allowed"}
	}

	u := &kageUnit{stage: stage}
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}
		for _, c := range cg.List {
			if rest, ok := strings.CutPrefix(c.Text, kageUnitDirective); ok {
				u.unit = strings.TrimSpace(rest)
			}
		}
	}
	u.body = src[fset.Position(f.Name.End()).Offset:]

	hasFragment := false
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name == "Fragment" {
				hasFragment = true
			}
			u.decls = append(u.decls, d.Name.Name)
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.ValueSpec:
					for _, name := range spec.Names {
						u.decls = append(u.decls, name.Name)
						if d.Tok == token.VAR && name.IsExported() && spec.Type != nil {
							u.uniforms = append(u.uniforms, Uniform{Name: name.Name, Type: types.ExprString(spec.Type)})
						}
					}
				case *ast.TypeSpec:
					u.decls = append(u.decls, spec.Name.Name)
				}
			}
		}
	}

	switch {
	case stage == StageFragment && !hasFragment:
		return nil, &CompileError{Stage: stage, Log: "missing entry point func Fragment"}
	case stage == StageVertex && hasFragment:
		return nil, &CompileError{Stage: stage, Log: "func Fragment belongs to the fragment stage"}
	}

	u.uniforms = append(u.uniforms, textureUnits(f)...)
	return u, nil
}

// textureUnits finds the imageSrcN built-ins a unit references and reports
// each as a texture-unit uniform named imageSrcN.
func textureUnits(f *ast.File) []Uniform {
	var seen [4]bool
	ast.Inspect(f, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		rest, ok := strings.CutPrefix(id.Name, "imageSrc")
		if !ok || rest == "" {
			return true
		}
		if unit, err := strconv.Atoi(rest[:1]); err == nil && unit < len(seen) {
			seen[unit] = true
		}
		return true
	})
	var out []Uniform
	for unit, used := range seen {
		if used {
			out = append(out, Uniform{Name: "imageSrc" + strconv.Itoa(unit), Type: textureType, Unit: unit})
		}
	}
	return out
}

// linkUnits merges the vertex and fragment units into one Kage program.
func linkUnits(vs, fs *kageUnit) ([]byte, error) {
	unit := vs.unit
	switch {
	case unit == "":
		unit = fs.unit
	case fs.unit != "" && fs.unit != unit:
		return nil, &LinkError{Log: fmt.Sprintf("stages disagree on kage:unit (%s vs %s)", vs.unit, fs.unit)}
	}

	declared := make(map[string]bool, len(vs.decls))
	for _, name := range vs.decls {
		declared[name] = true
	}
	var dup []string
	for _, name := range fs.decls {
		if declared[name] {
			dup = append(dup, name)
		}
	}
	if len(dup) > 0 {
		return nil, &LinkError{Log: "declared in both stages: " + strings.Join(dup, ", ")}
	}

	var b bytes.Buffer
	if unit != "" {
		b.WriteString(kageUnitDirective + unit + "\n\n")
	}
	b.WriteString("package main\n")
	b.Write(vs.body)
	b.WriteString("\n")
	b.Write(fs.body)
	return b.Bytes(), nil
}
