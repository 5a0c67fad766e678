// Package ai defines the boundary types of the generation pipeline: the
// normalized request and settings shapes, the uniform result envelope, the
// asynchronous job protocol, and the Adapter contract every provider backend
// implements. Concrete adapters live in subpackages (openaicompat, gemini,
// localdiff, mock); the resolution and execution logic lives under core/.
package ai
