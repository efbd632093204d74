// Package crypto provides the password hashers used by hashguard.
//
// Every hasher produces a self-describing string that carries the algorithm,
// its parameters, the salt and the digest, so verification needs nothing
// but the stored string:
//   - argon2id:      $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//   - bcrypt:        $2a$12$<salt+hash>
//   - pbkdf2-sha256: $pbkdf2-sha256$i=210000$<salt>$<hash>
//
// Argon2id is the default. Registry dispatches verification by prefix so a
// hash written by one driver stays verifiable after the default changes.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
