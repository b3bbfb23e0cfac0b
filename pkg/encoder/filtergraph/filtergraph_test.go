package filtergraph

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"math"
	"strings"
	"testing"
)

// Testing scale filter in isolation
func TestVideoScaleFilter(t *testing.T) {
	scale := NewVideoScaleFilter(NewInput("0:v"), "scaled", 1280, 720)
	assert.Equal(t, "[0:v]scale=1280:720:force_original_aspect_ratio=decrease[scaled];", scale.Build())
}

func TestCenterPadFilter(t *testing.T) {
	pad := NewCenterPadFilter(NewInput("scaled"), "centered", 1280, 720)
	assert.Equal(t, "[scaled]pad=1280:720:(ow-iw)/2:(oh-ih)/2[centered];", pad.Build())
}

func TestMarginPadFilter(t *testing.T) {
	pad := NewMarginPadFilter(NewInput("centered"), "padded", 1280, 720, 6)
	assert.Equal(t, "[centered]pad=1292:732:6:6[padded];", pad.Build())
}

func TestVideoCropFilter_QuotesExpressionsWithCommas(t *testing.T) {
	x := Add(Int(5), Mul(Num(0.5), Sin(Mul(Int(2), Pi, T))))
	y := If(Lt(Mod(T, Num(8)), Num(0.1)), Int(1), Int(0))
	crop := NewVideoCropFilter(NewInput("padded"), "shaken", 1280, 720, x, y)
	assert.Equal(t,
		"[padded]crop=1280:720:5+0.500*sin(2*PI*t):'if(lt(mod(t,8.000),0.100),1,0)'[shaken];",
		crop.Build())
}

func TestVideoEqFilter(t *testing.T) {
	eq := NewVideoEqFilter(NewInput("shaken"), "v", 0.0101, 1.0349, 1.08)
	assert.Equal(t, "[shaken]eq=brightness=0.010:contrast=1.035:saturation=1.080[v];", eq.Build())
}

// Testing normalization filter in isolation
func TestNormalizationFilter(t *testing.T) {
	norm := NewAudioNormalizationFilter(NewInput("1:a"), "norm")
	assert.Equal(t, "[1:a]loudnorm=I=-16:TP=-1.5:LRA=11[norm];", norm.Build())
}

// Testing resample filter in isolation
func TestResampleFilter(t *testing.T) {
	resample := NewAudioResampleFilter(NewInput("norm"), "a", K44)
	assert.Equal(t,
		fmt.Sprintf("[norm]aformat=sample_fmts=fltp:sample_rates=%s:channel_layouts=stereo[%s];", "44100", "a"),
		resample.Build())
}

func TestExpr_Parentheses(t *testing.T) {
	assert.Equal(t, "(ow-iw)/2", Div(Sub(OutW, InW), Int(2)).String())
	assert.Equal(t, "a-(b+c)", Sub(Var("a"), Add(Var("b"), Var("c"))).String())
	assert.Equal(t, "a-b+c", Add(Sub(Var("a"), Var("b")), Var("c")).String())
	assert.Equal(t, "2*(a+b)", Mul(Int(2), Add(Var("a"), Var("b"))).String())
	assert.Equal(t, "a/(b*c)", Div(Var("a"), Mul(Var("b"), Var("c"))).String())
	assert.Equal(t, "t+0.300", Add(T, Num(0.3)).String())
}

func TestExpr_CheckFinite(t *testing.T) {
	assert.NoError(t, CheckFinite(Add(Int(5), Mul(Num(0.5), Sin(T)))))
	err := CheckFinite(Add(Int(5), Mul(Num(math.NaN()), Sin(T))))
	assert.Error(t, err)
	err = CheckFinite(If(Lt(Mod(T, Num(math.Inf(1))), Num(0.1)), Int(1), Int(0)))
	assert.ErrorContains(t, err, "mod()")
}

// Testing a full video chain
func TestCompile_VideoChain(t *testing.T) {
	var root Filter = NewInput("0:v")
	root = NewVideoScaleFilter(root, "scaled", 1280, 720)
	root = NewCenterPadFilter(root, "centered", 1280, 720)
	root = NewMarginPadFilter(root, "padded", 1280, 720, 5)
	root = NewVideoCropFilter(root, "shaken", 1280, 720, Int(5), Int(5))
	root = NewVideoEqFilter(root, "v", 0.01, 1.03, 1.08)
	graph, err := Compile(root)
	assert.NoError(t, err)
	// 5 steps, no trailing ";"
	assert.Equal(t, 5, len(strings.Split(graph, ";")))
	assert.False(t, strings.HasSuffix(graph, ";"))
	assert.True(t, strings.HasSuffix(graph, "[v]"))
	// Every intermediate label is produced once and consumed once
	for _, label := range []string{"scaled", "centered", "padded", "shaken"} {
		assert.Equal(t, 2, strings.Count(graph, fmt.Sprintf("[%s]", label)))
	}
	// Scale must be executed before Eq
	assert.Greater(t, strings.Index(graph, "eq="), strings.Index(graph, "scale="))
}

func TestCompile_NilRoot(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)
}

func TestCompile_InputOnly(t *testing.T) {
	_, err := Compile(NewInput("0:v"))
	assert.Error(t, err)
}

func TestCompile_DuplicatedLabel(t *testing.T) {
	var root Filter = NewInput("0:v")
	root = NewVideoScaleFilter(root, "same", 1280, 720)
	root = NewCenterPadFilter(root, "same", 1280, 720)
	_, err := Compile(root)
	assert.ErrorContains(t, err, "produced twice")
}

func TestCheckGraph_Unbalanced(t *testing.T) {
	assert.Error(t, checkGraph("[0:v]scale=1:1[a", "a"))
	assert.Error(t, checkGraph("[0:v]crop=1:1:'t[a]", "a"))
	assert.Error(t, checkGraph("0:v]scale=1:1[a]", "a"))
	assert.Error(t, checkGraph("[0:v]scale=1:1[a]", "b"))
	assert.NoError(t, checkGraph("[0:v]scale=1:1[a];[a]eq=brightness=0.010[b]", "b"))
}
