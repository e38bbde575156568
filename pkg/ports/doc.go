/*
Package ports defines the driven ports (interfaces) for the Kitchen Helper engine.

These interfaces decouple the dialogue core from external implementations, allowing
the engine to work with various session stores, device shadow transports and
device registries.

# Key Interfaces

  - SessionStore: persists the per-user Session record.
  - DeviceRegistry: maps a user identity to a thermometer identifier.
  - DeviceShadow: reads the reported state and writes the desired state of a device.
  - DeviceSimulator: provisions a simulated thermometer.
  - DistributedLocker: serializes turns of one user across replicas.
*/
package ports
