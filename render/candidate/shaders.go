// Package candidate implements the GPU-accelerated point-sprite renderer
// of §4.5: the same engine.Renderer contract as render/reference, but
// backed by gogpu/wgpu instead of a CPU pixel buffer.
package candidate

import (
	"fmt"

	"github.com/gogpu/naga"
)

// pointVertexWGSL is the vertex stage shared by the circle and square
// point-sprite fragment stages. Per-instance attributes are the data-space
// position and label; the view/projection uniform matches the screen
// transform render/reference computes via geometry.EuclideanView/
// PoincareView, recomputed CPU-side every frame and uploaded as a 2D
// affine matrix (§4.1) rather than re-derived on the GPU.
const pointVertexWGSL = `
struct Uniforms {
  viewProj: mat3x3<f32>,
  pointRadiusPx: f32,
  dpr: f32,
  paletteSize: f32,
  _pad: f32,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var paletteTex: texture_2d<f32>;
@group(0) @binding(2) var paletteSampler: sampler;

struct VertexIn {
  @location(0) position: vec2<f32>,
  @location(1) label: f32,
}

struct VertexOut {
  @builtin(position) clipPosition: vec4<f32>,
  @location(0) color: vec4<f32>,
  @location(1) pointCoord: vec2<f32>,
}

@vertex
fn vs_main(in: VertexIn, @builtin(vertex_index) vertexIndex: u32) -> VertexOut {
  let clip = uniforms.viewProj * vec3<f32>(in.position, 1.0);
  var out: VertexOut;
  out.clipPosition = vec4<f32>(clip.xy, 0.0, 1.0);
  let u = (in.label + 0.5) / max(uniforms.paletteSize, 1.0);
  out.color = textureSample(paletteTex, paletteSampler, vec2<f32>(u, 0.5));
  out.pointCoord = vec2<f32>(0.0, 0.0);
  return out;
}
`

// circleFragmentWGSL is the antialiased-circle fragment stage (§4.5):
// smoothstep over length(gl_PointCoord*2-1), guarding point-local AA width
// against radii too small to resolve a soft edge.
const circleFragmentWGSL = `
@fragment
fn fs_main(@location(0) color: vec4<f32>, @location(1) pointCoord: vec2<f32>) -> @location(0) vec4<f32> {
  let d = length(pointCoord * 2.0 - vec2<f32>(1.0, 1.0));
  let aa = max(1.5 / uniforms.pointRadiusPx, 0.015);
  let coverage = 1.0 - smoothstep(1.0 - aa, 1.0, d);
  if (coverage <= 0.0) {
    discard;
  }
  return vec4<f32>(color.rgb, color.a * coverage);
}
`

// squareFragmentWGSL is the cheaper no-discard square stage used when
// under fragment pressure (§4.5 shape policy).
const squareFragmentWGSL = `
@fragment
fn fs_main(@location(0) color: vec4<f32>, @location(1) pointCoord: vec2<f32>) -> @location(0) vec4<f32> {
  return color;
}
`

// overlayFragmentWGSL is the solid-color selection/hover stage with an
// optional ring mode: discard inside a computed inner radius (§4.5).
const overlayFragmentWGSL = `
struct OverlayUniforms {
  color: vec4<f32>,
  innerRadius: f32,
  ringMode: f32,
  _pad0: f32,
  _pad1: f32,
}

@group(0) @binding(0) var<uniform> overlay: OverlayUniforms;

@fragment
fn fs_main(@location(1) pointCoord: vec2<f32>) -> @location(0) vec4<f32> {
  let d = length(pointCoord * 2.0 - vec2<f32>(1.0, 1.0));
  if (overlay.ringMode > 0.5 && d < overlay.innerRadius) {
    discard;
  }
  if (d > 1.0) {
    discard;
  }
  return overlay.color;
}
`

// backdropFragmentWGSL draws the Poincaré disk fill, border, 8 radial
// geodesics and 5 concentric circles into the cached offscreen backdrop
// texture (§4.5 "Poincaré backdrop"). AA width uses fwidth(dist) so the
// border/grid stay one device pixel wide under any DPR.
const backdropFragmentWGSL = `
struct BackdropUniforms {
  center: vec2<f32>,
  radius: f32,
  _pad: f32,
  fillColor: vec4<f32>,
  edgeColor: vec4<f32>,
  gridColor: vec4<f32>,
  edgeWidthPx: f32,
  gridWidthPx: f32,
  _pad2: f32,
  _pad3: f32,
}

@group(0) @binding(0) var<uniform> u: BackdropUniforms;

@fragment
fn fs_main(@builtin(position) fragCoord: vec4<f32>) -> @location(0) vec4<f32> {
  let p = fragCoord.xy - u.center;
  let dist = length(p);
  let aaw = max(fwidth(dist), 1.0);

  var color = vec4<f32>(0.0, 0.0, 0.0, 0.0);
  if (dist < u.radius) {
    color = u.fillColor;
  }

  let edgeCoverage = 1.0 - smoothstep(u.radius - aaw, u.radius + aaw, abs(dist - u.radius));
  color = mix(color, u.edgeColor, edgeCoverage * step(0.0, u.edgeWidthPx));

  let theta = atan2(p.y, p.x);
  let wedge = fract(theta / (2.0 * 3.14159265) * 8.0);
  let wedgeDist = min(wedge, 1.0 - wedge) * u.radius / 8.0;
  let geodesicCoverage = (1.0 - smoothstep(0.0, aaw, wedgeDist)) * step(dist, u.radius);
  color = mix(color, u.gridColor, geodesicCoverage);

  for (var i = 1; i <= 5; i = i + 1) {
    let ringR = u.radius * f32(i) / 6.0;
    let ringCoverage = 1.0 - smoothstep(0.0, aaw, abs(dist - ringR));
    color = mix(color, u.gridColor, ringCoverage);
  }

  return color;
}
`

// compositeFragmentWGSL samples the cached backdrop or offscreen points
// texture over a fullscreen triangle — the "never a raw framebuffer
// blit" composite path of §4.5/§9.
const compositeFragmentWGSL = `
@group(0) @binding(0) var srcTex: texture_2d<f32>;
@group(0) @binding(1) var srcSampler: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
  return textureSample(srcTex, srcSampler, uv);
}
`

// compileSPIRV mirrors the teacher's CompileShaderToSPIRV: naga compiles
// WGSL to a SPIR-V byte stream, packed little-endian into the []uint32
// form hal.ShaderSource{SPIRV: ...} expects.
func compileSPIRV(label, wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("candidate: compiling shader %q: %w", label, err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
