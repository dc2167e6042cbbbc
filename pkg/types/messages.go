package types

// Client -> Server
// AddEntrant:
//   name: string
//
// DeleteEntrant:
//   index: number
//
// SetEntrants:
//   entrants: string[]
//
// ResetEntrants: {}
//
// Spin: {}

// Server -> Client
// StateSnapshot:
//   version: number
//   state:
//     code: string
//     phase: "idle" | "spinning"
//     entrants: string[]
//     sectors: { index, entrant, start, end }[]
//     rotation: number // degrees, absolute
//     max_entrants: number
//     clients: number
//     spin_id: number // while spinning
//     plan: Plan // while spinning
//     last_result: SpinResult // optional
//
// SpinStarted (reply to Spin):
//   plan: { winning_index, arc_size, center, stop_angle, extra_turns, start, target, duration }
//
// RenderTick (only when the server tick interval is set):
//   tick: { spin_id, rotation, elapsed_ms }
//
// SpinResult (exactly once per spin):
//   result: { spin_id, winning_index, winning_entrant, final_rotation, entrant_count, duration }
//
// Error:
//   code: "insufficient_entrants" | "already_spinning" | "list_locked" |
//         "capacity_exceeded" | "empty_entrant" | "index_out_of_range" | ...
//   error: string
