// Package timer implements the gRPC control surface of the timer skill.
//
// The service is declared with a hand-written grpc.ServiceDesc over protobuf
// well-known types, so no generated code is needed. Utterances arrive as
// wrapperspb.StringValue, the sending actor travels in request metadata and
// results are returned as structpb.Struct.
package timer
