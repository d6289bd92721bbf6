// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the audxtract command.
//
//	extract:
//	  dequeue_timeout_ms: 10
//	  input_slots: 4
//	  output_slots: 4
//	  input_buffer_size: 65536
//	  output_buffer_size: 16384
//	logging:
//	  level: info     # debug, info, warn, error
//	  format: text    # text, json, stdr
//	metrics:
//	  textfile: /var/lib/node_exporter/audxtract.prom
//
// Every key is optional; missing keys keep the values from Default.
package config
