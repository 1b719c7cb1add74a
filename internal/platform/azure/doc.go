// Package azure wraps the Azure Resource Manager API behind small
// capability interfaces consumed by the provisioning and bootstrap
// subsystems.
//
// [RealClient] implements the interfaces with the official SDK clients;
// [MockClient] provides func-field overrides for tests. Consumers depend
// only on the [Client] interface and the plain data types defined here, so
// SDK types never leak past this package.
package azure
