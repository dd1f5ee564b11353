// Package io reads and writes drawings in the formats dxfsvg understands.
//
// # Formats
//
//   - dxf: ASCII drawing exchange files, the usual input
//   - json: the document model as JSON, one [code, "value"] array per pair
//   - msgpack: the same shape as json, MessagePack encoded
//
// The JSON shape mirrors the section structure of a drawing:
//
//	{
//	  "HEADER":   {"$ACADVER": [[1, "AC1015"]]},
//	  "TABLES":   {"LAYER": [[[0, "LAYER"], [2, "0"], [62, "7"]]]},
//	  "BLOCKS":   {"DOOR": [[[0, "BLOCK"], [2, "DOOR"]], [[0, "ENDBLK"]]]},
//	  "ENTITIES": [[[0, "LINE"], [8, "0"], [10, "0"], [20, "0"], [11, "1"], [21, "1"]]]
//	}
//
// # Import
//
// Use [ImportDocument] to read a file (the format is chosen by extension) or
// [ReadDocument] to read from any io.Reader:
//
//	doc, err := io.ImportDocument("plan.dxf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ASCII files that are not valid UTF-8 predate AutoCAD 2007 and are decoded
// with the codepage named by their $DWGCODEPAGE header variable, or the one
// given with [WithCodepage]. Binary DXF is rejected.
//
// # Export
//
// Use [ExportDocument] to write a file, or [WriteJSON], [WriteMsgpack] and
// [WriteDXF] to write to any io.Writer. Reading back what was written yields
// an equal document.
package io
